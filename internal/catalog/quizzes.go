package catalog

func quizActions() []Action {
	return []Action{
		{
			Name:        "list_quizzes",
			Description: "List all quizzes in a course. Use this when user asks about quizzes or tests.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "search_term", Type: TypeString, Description: "Search quizzes by title"},
			},
		},
		{
			Name:        "get_quiz",
			Description: "Get details about a specific quiz. Use this when user asks about a specific quiz.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "quiz_id", Type: TypeInteger, Description: "The quiz ID", Required: true},
			},
		},
		{
			Name:        "create_quiz",
			Description: "Create a new quiz in a course. Use this when user wants to add or create a quiz or test.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "title", Type: TypeString, Description: "The quiz title", Required: true},
				{Name: "description", Type: TypeString, Description: "Quiz description (HTML allowed)"},
				{Name: "quiz_type", Type: TypeString, Description: "Quiz type: practice_quiz, assignment, graded_survey, survey"},
				{Name: "time_limit", Type: TypeInteger, Description: "Time limit in minutes"},
				{Name: "shuffle_answers", Type: TypeBoolean, Description: "Shuffle answer order"},
				{Name: "allowed_attempts", Type: TypeInteger, Description: "Number of attempts allowed (-1 for unlimited)"},
				{Name: "scoring_policy", Type: TypeString, Description: "Scoring for multiple attempts: keep_highest or keep_latest"},
				{Name: "due_at", Type: TypeString, Description: "Due date in ISO 8601 format"},
				{Name: "published", Type: TypeBoolean, Description: "Publish immediately"},
			},
		},
		{
			Name:        "update_quiz",
			Description: "Update quiz information. Use this when user wants to modify or change a quiz.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "quiz_id", Type: TypeInteger, Description: "The quiz ID", Required: true},
				{Name: "title", Type: TypeString, Description: "New quiz title"},
				{Name: "description", Type: TypeString, Description: "New description (HTML allowed)"},
				{Name: "time_limit", Type: TypeInteger, Description: "New time limit in minutes"},
				{Name: "published", Type: TypeBoolean, Description: "Published status"},
			},
		},
		{
			Name:        "delete_quiz",
			Description: "Delete a quiz. DESTRUCTIVE ACTION - requires confirmation. Use this when user explicitly wants to delete a quiz.",
			Parameters: []Parameter{
				{Name: "course_id", Type: TypeInteger, Description: "The Canvas course ID", Required: true},
				{Name: "quiz_id", Type: TypeInteger, Description: "The quiz ID to delete", Required: true},
			},
		},
	}
}
