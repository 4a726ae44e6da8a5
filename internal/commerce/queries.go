package commerce

const imageFields = `url altText width height`

const referenceFields = `
	__typename
	... on Metaobject { id type handle
		fields { key type value
			reference { __typename ... on MediaImage { id image { ` + imageFields + ` } } ... on Metaobject { id type handle } ... on Product { id handle title } }
			references(first: 20) { nodes { __typename ... on MediaImage { id image { ` + imageFields + ` } } ... on Metaobject { id type handle } ... on Product { id handle title } } }
		}
	}
	... on MediaImage { id image { ` + imageFields + ` } }
	... on GenericFile { id url }
	... on Product { id handle title }
	... on Collection { id handle title }
	... on Page { id handle title }
	... on ProductVariant { id title }
`

const metafieldFields = `
	namespace key type value
	reference { ` + referenceFields + ` }
	references(first: 50) { nodes { ` + referenceFields + ` } }
`

const productFields = `
	id handle title description descriptionHtml vendor productType tags availableForSale updatedAt
	seo { title description }
	featuredImage { ` + imageFields + ` }
	images(first: 20) { nodes { ` + imageFields + ` } }
	variants(first: 100) { nodes {
		id title sku availableForSale
		price { amount currencyCode }
		compareAtPrice { amount currencyCode }
		image { ` + imageFields + ` }
	} }
	priceRange { minVariantPrice { amount currencyCode } maxVariantPrice { amount currencyCode } }
	metafields(identifiers: $identifiers) { ` + metafieldFields + ` }
`

const productQuery = `query Product($handle: String!, $identifiers: [HasMetafieldsIdentifier!]!, $language: LanguageCode)
@inContext(language: $language) {
	product(handle: $handle) { ` + productFields + ` }
}`

const collectionQuery = `query Collection($handle: String!, $first: Int!, $identifiers: [HasMetafieldsIdentifier!]!, $language: LanguageCode)
@inContext(language: $language) {
	collection(handle: $handle) {
		id handle title description updatedAt
		seo { title description }
		image { ` + imageFields + ` }
		metafields(identifiers: $identifiers) { ` + metafieldFields + ` }
		products(first: $first) { nodes { ` + productFields + ` } }
	}
}`

const productHandlesQuery = `query ProductHandles($after: String) {
	products(first: 250, after: $after) {
		pageInfo { hasNextPage endCursor }
		nodes { handle updatedAt }
	}
}`

const collectionHandlesQuery = `query CollectionHandles($after: String) {
	collections(first: 250, after: $after) {
		pageInfo { hasNextPage endCursor }
		nodes { handle updatedAt }
	}
}`
