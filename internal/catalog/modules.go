package catalog

func moduleActions() []Action {
	return []Action{
		{
			Name:        "list_modules",
			Description: "List all modules in a course. Use this when user asks about modules in a course.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "include", Type: TypeArray, Description: "Additional data to include (items, content_details)"},
				{Name: "include_items", Type: TypeBoolean, Description: "Include module items in the response"},
			},
		},
		{
			Name:        "get_module",
			Description: "Get details about a specific module. Use this when user asks about a specific module.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "module_id", Type: TypeInteger, Description: "The module ID", Required: true},
			},
		},
		{
			Name:        "create_module",
			Description: "Create a new module in a course. Use this when user wants to add or create a module.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "name", Type: TypeString, Description: "The module name", Required: true},
				{Name: "position", Type: TypeInteger, Description: "The position of the module in the course (1-based)"},
				{Name: "require_sequential_progress", Type: TypeBoolean, Description: "Whether students must complete items in order"},
				{Name: "unlock_at", Type: TypeString, Description: "Date when module unlocks (ISO 8601 format)"},
			},
		},
		{
			Name:        "update_module",
			Description: "Update module information. Use this when user wants to modify or change a module.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "module_id", Type: TypeInteger, Description: "The module ID", Required: true},
				{Name: "name", Type: TypeString, Description: "New module name"},
				{Name: "published", Type: TypeBoolean, Description: "Whether the module should be published"},
			},
		},
		{
			Name:        "delete_module",
			Description: "Delete a module. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete a module.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "module_id", Type: TypeInteger, Description: "The module ID to delete", Required: true},
			},
		},
		{
			Name:        "create_module_item",
			Description: "Add an item to a module (page, assignment, quiz, discussion, file, etc.). Use this when user wants to add content to a module.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "module_id", Type: TypeInteger, Description: "The module ID", Required: true},
				{Name: "title", Type: TypeString, Description: "The item title", Required: true},
				{Name: "type", Type: TypeString, Description: "The type of item: Page, Assignment, Quiz, Discussion, File, SubHeader, ExternalUrl, or ExternalTool", Required: true},
				{Name: "content_id", Type: TypeInteger, Description: "The ID of the content object (assignment ID, page ID, etc.)"},
				{Name: "page_url", Type: TypeString, Description: "The URL of the page (for Page type items)"},
				{Name: "external_url", Type: TypeString, Description: "The external URL (for ExternalUrl type items)"},
				{Name: "position", Type: TypeInteger, Description: "The position in the module"},
				{Name: "indent", Type: TypeInteger, Description: "Indentation level (0-3)"},
			},
		},
	}
}
