package catalog

func assignmentActions() []Action {
	return []Action{
		{
			Name:        "list_assignments",
			Description: "List all assignments in a course. Use this when user asks about assignments.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "search_term", Type: TypeString, Description: "Search assignments by name"},
				{Name: "bucket", Type: TypeString, Description: "Filter: past, overdue, undated, ungraded, upcoming, future"},
			},
		},
		{
			Name:        "get_assignment",
			Description: "Get details about a specific assignment. Use this when user asks about a specific assignment.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "assignment_id", Type: TypeInteger, Description: "The assignment ID", Required: true},
			},
		},
		{
			Name:        "create_assignment",
			Description: "Create a new assignment in a course. Use this when user wants to add or create an assignment.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "name", Type: TypeString, Description: "The assignment name", Required: true},
				{Name: "description", Type: TypeString, Description: "Assignment description (HTML allowed)"},
				{Name: "points_possible", Type: TypeNumber, Description: "Maximum points"},
				{Name: "due_at", Type: TypeString, Description: "Due date in ISO 8601 format"},
				{Name: "submission_types", Type: TypeArray, Description: "Allowed submission types: online_text_entry, online_url, online_upload, media_recording, on_paper, external_tool, none"},
				{Name: "published", Type: TypeBoolean, Description: "Publish immediately"},
				{Name: "grading_type", Type: TypeString, Description: "Grading method: points, pass_fail, percent, letter_grade, gpa_scale, not_graded"},
			},
		},
		{
			Name:        "update_assignment",
			Description: "Update assignment information. Use this when user wants to modify or change an assignment.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "assignment_id", Type: TypeInteger, Description: "The assignment ID", Required: true},
				{Name: "name", Type: TypeString, Description: "New assignment name"},
				{Name: "description", Type: TypeString, Description: "New description (HTML allowed)"},
				{Name: "points_possible", Type: TypeNumber, Description: "New maximum points"},
				{Name: "due_at", Type: TypeString, Description: "New due date in ISO 8601 format"},
				{Name: "published", Type: TypeBoolean, Description: "Published status"},
			},
		},
		{
			Name:        "delete_assignment",
			Description: "Delete an assignment. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete an assignment.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "assignment_id", Type: TypeInteger, Description: "The assignment ID to delete", Required: true},
			},
		},
	}
}
