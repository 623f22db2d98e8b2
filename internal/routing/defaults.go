package routing

// DefaultRoutes returns the application's logical routes. Keys double
// as the default-locale path segments; "home" maps to the empty
// segment, i.e. the site root.
func DefaultRoutes() []LogicalRoute {
	return []LogicalRoute{
		{Key: "home", HandlerRef: "home"},
		{Key: "about", HandlerRef: "about"},
		{Key: "contact", HandlerRef: "contact"},
		{Key: "blog", HandlerRef: "blog"},
		{Key: "category", Suffix: "/{slug}", HandlerRef: "category"},
		{Key: "post", Suffix: "/{slug}", HandlerRef: "post"},
	}
}

// DefaultPaths returns the translated path segments per locale. Pairs
// without an entry fall back to the key itself, which is how "jp"
// reuses the English segments throughout.
func DefaultPaths() PathTable {
	return PathTable{
		"home": {
			"en": "", "pt": "", "fr": "", "jp": "",
		},
		"about": {
			"fr": "a-propos",
			"pt": "sobre",
		},
		"contact": {
			"fr": "contact",
			"pt": "contato",
		},
		"category": {
			"fr": "categorie",
			"pt": "categoria",
		},
		"post": {
			"fr": "article",
			"pt": "postagem",
		},
	}
}
