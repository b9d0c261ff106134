package catalog

func pageActions() []Action {
	return []Action{
		{
			Name:        "list_pages",
			Description: "List all pages in a course. Use this when user asks about pages.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "search_term", Type: TypeString, Description: "Search pages by title"},
				{Name: "published", Type: TypeBoolean, Description: "Filter by published status"},
			},
		},
		{
			Name:        "get_page",
			Description: "Get details about a specific page including its content. Use this when user asks about a specific page.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "page_url", Type: TypeString, Description: "The page URL (slug)", Required: true},
			},
		},
		{
			Name:        "create_page",
			Description: "Create a new page in a course. Use this when user wants to add or create a page.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "title", Type: TypeString, Description: "The page title", Required: true},
				{Name: "body", Type: TypeString, Description: "The page content (HTML allowed)", Required: true},
				{Name: "published", Type: TypeBoolean, Description: "Whether the page should be published immediately"},
				{Name: "front_page", Type: TypeBoolean, Description: "Set as course front page"},
				{Name: "editing_roles", Type: TypeString, Description: "Who can edit: teachers, students, members, or public"},
			},
		},
		{
			Name:        "update_page",
			Description: "Update page content or settings. Use this when user wants to modify or change a page.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "page_url", Type: TypeString, Description: "The page URL (slug)", Required: true},
				{Name: "title", Type: TypeString, Description: "New page title"},
				{Name: "body", Type: TypeString, Description: "New page content (HTML allowed)"},
				{Name: "published", Type: TypeBoolean, Description: "Whether the page should be published"},
			},
		},
		{
			Name:        "delete_page",
			Description: "Delete a page. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete a page.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "page_url", Type: TypeString, Description: "The page URL (slug) to delete", Required: true},
			},
		},
	}
}
