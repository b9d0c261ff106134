package catalog

func discussionActions() []Action {
	return []Action{
		{
			Name:        "list_discussions",
			Description: "List all discussion topics in a course. Use this when user asks about discussions.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "search_term", Type: TypeString, Description: "Search discussions by title"},
			},
		},
		{
			Name:        "get_discussion",
			Description: "Get details about a specific discussion topic. Use this when user asks about a specific discussion.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "topic_id", Type: TypeInteger, Description: "The discussion topic ID", Required: true},
			},
		},
		{
			Name:        "create_discussion",
			Description: "Create a new discussion topic in a course. Use this when user wants to start a discussion.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "title", Type: TypeString, Description: "The discussion title", Required: true},
				{Name: "message", Type: TypeString, Description: "The discussion body (HTML allowed)", Required: true},
				{Name: "discussion_type", Type: TypeString, Description: "Discussion type: side_comment or threaded"},
				{Name: "published", Type: TypeBoolean, Description: "Publish immediately"},
				{Name: "is_announcement", Type: TypeBoolean, Description: "Create as announcement instead of discussion"},
				{Name: "pinned", Type: TypeBoolean, Description: "Pin to top of discussions list"},
				{Name: "require_initial_post", Type: TypeBoolean, Description: "Students must post before seeing replies"},
			},
		},
		{
			Name:        "list_announcements",
			Description: "List announcements in a course. Use this when user asks about announcements.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
			},
		},
		{
			Name:        "create_announcement",
			Description: "Post an announcement to a course. Use this when user wants to announce something to students.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "title", Type: TypeString, Description: "The announcement title", Required: true},
				{Name: "message", Type: TypeString, Description: "The announcement body (HTML allowed)", Required: true},
				{Name: "published", Type: TypeBoolean, Description: "Publish immediately"},
			},
		},
		{
			Name:        "update_discussion",
			Description: "Update a discussion topic. Use this when user wants to modify or change a discussion.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "topic_id", Type: TypeInteger, Description: "The discussion topic ID", Required: true},
				{Name: "title", Type: TypeString, Description: "New discussion title"},
				{Name: "message", Type: TypeString, Description: "New discussion body (HTML allowed)"},
				{Name: "published", Type: TypeBoolean, Description: "Published status"},
			},
		},
		{
			Name:        "delete_discussion",
			Description: "Delete a discussion topic. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete a discussion.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "topic_id", Type: TypeInteger, Description: "The discussion topic ID to delete", Required: true},
			},
		},
		{
			Name:        "post_discussion_entry",
			Description: "Post a reply to a discussion topic. Use this when user wants to reply to or comment on a discussion.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "topic_id", Type: TypeInteger, Description: "The discussion topic ID", Required: true},
				{Name: "message", Type: TypeString, Description: "The reply message (HTML allowed)", Required: true},
			},
		},
	}
}
