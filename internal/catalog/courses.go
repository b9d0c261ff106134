package catalog

func courseActions() []Action {
	return []Action{
		{
			Name:        "list_courses",
			Description: "List all courses for the current user. Use this when user asks about their courses, what courses they have, or wants to see their course list.",
			Parameters: []Parameter{
				{Name: "enrollment_type", Type: TypeString, Description: "Filter by enrollment type: teacher, student, ta, observer, designer"},
				{Name: "enrollment_state", Type: TypeString, Description: "Filter by enrollment state: active, invited_or_pending, completed"},
			},
		},
		{
			Name:        "get_course",
			Description: "Get details about a specific course. Use this when user asks about a specific course's information.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
			},
		},
		{
			Name:        "create_course",
			Description: "Create a new course. Use this when user wants to create or add a new course.",
			Parameters: []Parameter{
				{Name: "account_id", Type: TypeInteger, Description: "The account ID to create the course in (usually 1 for main account)", Required: true},
				{Name: "name", Type: TypeString, Description: "The course name", Required: true},
				{Name: "course_code", Type: TypeString, Description: "The course code (e.g., 'CS101', 'MATH201')", Required: true},
				{Name: "start_at", Type: TypeString, Description: "Course start date in ISO 8601 format (e.g., '2024-01-15T00:00:00Z')"},
				{Name: "end_at", Type: TypeString, Description: "Course end date in ISO 8601 format"},
			},
		},
		{
			Name:        "update_course",
			Description: "Update course information or publish/unpublish a course. Use this when user wants to change course details or publish/unpublish it.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "name", Type: TypeString, Description: "New course name"},
				{Name: "course_code", Type: TypeString, Description: "New course code"},
				{Name: "event", Type: TypeString, Description: "Course event: 'offer' to publish, 'claim' to unpublish, 'conclude' to end, 'delete' to delete, 'undelete' to restore"},
			},
		},
		{
			Name:        "delete_course",
			Description: "Delete or conclude a course. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete or conclude a course.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "event", Type: TypeString, Description: "'delete' to permanently delete, 'conclude' to end the course", Required: true},
			},
		},
	}
}
