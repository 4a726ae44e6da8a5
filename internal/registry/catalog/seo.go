package catalog

import "github.com/jmylchreest/blockfront/internal/registry"

// Schema components render structured data only and have no visual output.
func seoComponents() []registry.Component {
	return []registry.Component{
		{
			Name:         "OrganizationSchema",
			FriendlyName: "Organization schema",
			NoWrap:       true,
			Inputs: []registry.Input{
				{Name: "name", FriendlyName: "Name", Type: registry.TypeString, Required: true},
				{Name: "logo", FriendlyName: "Logo", Type: registry.TypeFile, AllowedFileTypes: imageTypes},
				{Name: "sameAs", FriendlyName: "Profiles", Type: registry.TypeList, SubFields: []registry.Input{{Name: "url", Type: registry.TypeString, Required: true}}},
			},
		},
		{
			Name:         "ProductSchema",
			FriendlyName: "Product schema",
			NoWrap:       true,
			Inputs: []registry.Input{
				{Name: "handle", FriendlyName: "Product handle", Type: registry.TypeString, Required: true, HelperText: "Product data is read from the store"},
			},
		},
		{
			Name:         "ArticleSchema",
			FriendlyName: "Article schema",
			NoWrap:       true,
			Inputs: []registry.Input{
				{Name: "headline", FriendlyName: "Headline", Type: registry.TypeString, Required: true},
				{Name: "author", FriendlyName: "Author", Type: registry.TypeString},
				{Name: "datePublished", FriendlyName: "Published", Type: registry.TypeString, HelperText: "YYYY-MM-DD"},
				{Name: "image", FriendlyName: "Image", Type: registry.TypeFile, AllowedFileTypes: imageTypes},
			},
		},
		{
			Name:         "FAQSchema",
			FriendlyName: "FAQ schema",
			NoWrap:       true,
			Inputs: []registry.Input{
				{
					Name:         "questions",
					FriendlyName: "Questions",
					Type:         registry.TypeList,
					SubFields: []registry.Input{
						{Name: "question", FriendlyName: "Question", Type: registry.TypeString, Required: true},
						{Name: "answer", FriendlyName: "Answer", Type: registry.TypeRichText, Required: true},
					},
				},
			},
		},
		{
			Name:         "BreadcrumbSchema",
			FriendlyName: "Breadcrumb schema",
			NoWrap:       true,
			Inputs: []registry.Input{
				{
					Name:         "items",
					FriendlyName: "Items",
					Type:         registry.TypeList,
					SubFields: []registry.Input{
						{Name: "name", FriendlyName: "Name", Type: registry.TypeString, Required: true},
						{Name: "url", FriendlyName: "URL", Type: registry.TypeString, Required: true},
					},
				},
			},
		},
		{
			Name:         "EventSchema",
			FriendlyName: "Event schema",
			NoWrap:       true,
			Inputs: []registry.Input{
				{Name: "name", FriendlyName: "Name", Type: registry.TypeString, Required: true},
				{Name: "startDate", FriendlyName: "Start", Type: registry.TypeString, Required: true, HelperText: "ISO 8601 date and time"},
				{Name: "endDate", FriendlyName: "End", Type: registry.TypeString},
				{Name: "attendanceMode", FriendlyName: "Attendance", Type: registry.TypeString, Enum: []string{"offline", "online", "mixed"}, DefaultValue: "offline"},
				{Name: "location", FriendlyName: "Venue", Type: registry.TypeString, ShowIf: registry.Not(registry.FieldEquals("attendanceMode", "online"))},
				{Name: "url", FriendlyName: "Online URL", Type: registry.TypeString, ShowIf: registry.FieldIn("attendanceMode", "online", "mixed")},
			},
		},
		{
			Name:         "VideoSchema",
			FriendlyName: "Video schema",
			NoWrap:       true,
			Inputs: []registry.Input{
				{Name: "name", FriendlyName: "Title", Type: registry.TypeString, Required: true},
				{Name: "description", FriendlyName: "Description", Type: registry.TypeLongText},
				{Name: "youtubeId", FriendlyName: "YouTube video ID", Type: registry.TypeString},
				{Name: "uploadDate", FriendlyName: "Upload date", Type: registry.TypeString},
			},
		},
		{
			Name:         "MetaTags",
			FriendlyName: "Meta tags",
			NoWrap:       true,
			Inputs: []registry.Input{
				{Name: "title", FriendlyName: "Title override", Type: registry.TypeString},
				{Name: "description", FriendlyName: "Description override", Type: registry.TypeLongText},
				{Name: "ogImage", FriendlyName: "Social image", Type: registry.TypeFile, AllowedFileTypes: imageTypes},
				{Name: "noIndex", FriendlyName: "Hide from search engines", Type: registry.TypeBoolean, DefaultValue: false},
			},
		},
	}
}
