package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coursepilot/coursepilot/internal/cache"
	"github.com/coursepilot/coursepilot/internal/catalog"
	"github.com/coursepilot/coursepilot/internal/metrics"
)

type opFunc func(ctx context.Context, args map[string]any) (any, error)

// Executor maps catalog action names onto Client calls. The map is built
// once at startup and checked against the catalog, so a catalog action
// without an implementation is a construction error, not a runtime surprise.
type Executor struct {
	client *Client
	cache  cache.Cache
	ttl    time.Duration
	log    *logrus.Logger
	ops    map[string]opFunc
}

func NewExecutor(client *Client, cat *catalog.Catalog, c cache.Cache, ttl time.Duration, log *logrus.Logger) (*Executor, error) {
	if c == nil {
		c = cache.Noop{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	e := &Executor{client: client, cache: c, ttl: ttl, log: log}
	e.ops = e.buildOps()
	for _, name := range cat.Names() {
		if _, ok := e.ops[name]; !ok {
			return nil, fmt.Errorf("canvas executor: no implementation for action %q", name)
		}
	}
	return e, nil
}

// Invoke runs the named action. Read actions (list_*/get_*) go through the
// response cache; mutating actions invalidate it.
func (e *Executor) Invoke(ctx context.Context, action string, args map[string]any) (any, error) {
	op, ok := e.ops[action]
	if !ok {
		return nil, fmt.Errorf("unknown action %q", action)
	}

	if isRead(action) {
		key := cacheKey(action, args)
		if data, ok := e.cache.Get(ctx, key); ok {
			metrics.CacheHits.Inc()
			var result any
			if err := json.Unmarshal(data, &result); err == nil {
				return result, nil
			}
		}
		metrics.CacheMisses.Inc()
		result, err := op(ctx, args)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(result); err == nil {
			e.cache.Set(ctx, key, data, e.ttl)
		}
		return result, nil
	}

	result, err := op(ctx, args)
	if err != nil {
		return nil, err
	}
	e.log.WithField("action", action).Debug("canvas action executed")
	e.cache.InvalidatePrefix(ctx, "canvas:")
	return result, nil
}

func isRead(action string) bool {
	return strings.HasPrefix(action, "list_") || strings.HasPrefix(action, "get_")
}

// cacheKey is stable because encoding/json sorts map keys.
func cacheKey(action string, args map[string]any) string {
	data, err := json.Marshal(args)
	if err != nil {
		data = []byte("{}")
	}
	return "canvas:" + action + ":" + string(data)
}

func (e *Executor) buildOps() map[string]opFunc {
	return map[string]opFunc{
		"list_courses": func(ctx context.Context, args map[string]any) (any, error) {
			return e.client.ListCourses(ctx, argString(args, "enrollment_type"), argString(args, "enrollment_state"), nil)
		},
		"get_course": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			return e.client.GetCourse(ctx, courseID, nil)
		},
		"create_course": func(ctx context.Context, args map[string]any) (any, error) {
			accountID, err := reqInt(args, "account_id")
			if err != nil {
				return nil, err
			}
			name, err := reqString(args, "name")
			if err != nil {
				return nil, err
			}
			code, err := reqString(args, "course_code")
			if err != nil {
				return nil, err
			}
			return e.client.CreateCourse(ctx, accountID, name, code, collectFields(args, "start_at", "end_at"))
		},
		"update_course": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			return e.client.UpdateCourse(ctx, courseID, collectFields(args, "name", "course_code"), argString(args, "event"))
		},
		"delete_course": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			event, err := reqString(args, "event")
			if err != nil {
				return nil, err
			}
			return e.client.DeleteCourse(ctx, courseID, event)
		},

		"list_modules": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			return e.client.ListModules(ctx, courseID, argStringSlice(args, "include"))
		},
		"get_module": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, moduleID, err := reqInt2(args, "course_id", "module_id")
			if err != nil {
				return nil, err
			}
			return e.client.GetModule(ctx, courseID, moduleID, nil)
		},
		"create_module": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			name, err := reqString(args, "name")
			if err != nil {
				return nil, err
			}
			return e.client.CreateModule(ctx, courseID, name, collectFields(args, "position", "require_sequential_progress", "unlock_at"))
		},
		"update_module": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, moduleID, err := reqInt2(args, "course_id", "module_id")
			if err != nil {
				return nil, err
			}
			return e.client.UpdateModule(ctx, courseID, moduleID, collectFields(args, "name", "published"))
		},
		"delete_module": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, moduleID, err := reqInt2(args, "course_id", "module_id")
			if err != nil {
				return nil, err
			}
			return e.client.DeleteModule(ctx, courseID, moduleID)
		},
		"create_module_item": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, moduleID, err := reqInt2(args, "course_id", "module_id")
			if err != nil {
				return nil, err
			}
			title, err := reqString(args, "title")
			if err != nil {
				return nil, err
			}
			itemType, err := reqString(args, "type")
			if err != nil {
				return nil, err
			}
			fields := collectFields(args, "content_id", "page_url", "external_url", "position", "indent")
			return e.client.CreateModuleItem(ctx, courseID, moduleID, title, itemType, fields)
		},

		"list_pages": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			var published *bool
			if b, ok := args["published"].(bool); ok {
				published = &b
			}
			return e.client.ListPages(ctx, courseID, argString(args, "search_term"), published)
		},
		"get_page": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			pageURL, err := reqString(args, "page_url")
			if err != nil {
				return nil, err
			}
			return e.client.GetPage(ctx, courseID, pageURL)
		},
		"create_page": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			title, err := reqString(args, "title")
			if err != nil {
				return nil, err
			}
			body, err := reqString(args, "body")
			if err != nil {
				return nil, err
			}
			return e.client.CreatePage(ctx, courseID, title, body, collectFields(args, "published", "front_page", "editing_roles"))
		},
		"update_page": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			pageURL, err := reqString(args, "page_url")
			if err != nil {
				return nil, err
			}
			return e.client.UpdatePage(ctx, courseID, pageURL, collectFields(args, "title", "body", "published"))
		},
		"delete_page": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			pageURL, err := reqString(args, "page_url")
			if err != nil {
				return nil, err
			}
			return e.client.DeletePage(ctx, courseID, pageURL)
		},

		"list_assignments": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			return e.client.ListAssignments(ctx, courseID, argString(args, "search_term"), argString(args, "bucket"), "")
		},
		"get_assignment": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, assignmentID, err := reqInt2(args, "course_id", "assignment_id")
			if err != nil {
				return nil, err
			}
			return e.client.GetAssignment(ctx, courseID, assignmentID, nil)
		},
		"create_assignment": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			name, err := reqString(args, "name")
			if err != nil {
				return nil, err
			}
			fields := collectFields(args, "description", "points_possible", "due_at", "submission_types", "published", "grading_type")
			return e.client.CreateAssignment(ctx, courseID, name, fields)
		},
		"update_assignment": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, assignmentID, err := reqInt2(args, "course_id", "assignment_id")
			if err != nil {
				return nil, err
			}
			fields := collectFields(args, "name", "description", "points_possible", "due_at", "published")
			return e.client.UpdateAssignment(ctx, courseID, assignmentID, fields)
		},
		"delete_assignment": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, assignmentID, err := reqInt2(args, "course_id", "assignment_id")
			if err != nil {
				return nil, err
			}
			return e.client.DeleteAssignment(ctx, courseID, assignmentID)
		},

		"list_quizzes": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			return e.client.ListQuizzes(ctx, courseID, argString(args, "search_term"))
		},
		"get_quiz": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, quizID, err := reqInt2(args, "course_id", "quiz_id")
			if err != nil {
				return nil, err
			}
			return e.client.GetQuiz(ctx, courseID, quizID)
		},
		"create_quiz": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			title, err := reqString(args, "title")
			if err != nil {
				return nil, err
			}
			fields := collectFields(args, "description", "quiz_type", "time_limit", "shuffle_answers",
				"allowed_attempts", "scoring_policy", "due_at", "published")
			return e.client.CreateQuiz(ctx, courseID, title, fields)
		},
		"update_quiz": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, quizID, err := reqInt2(args, "course_id", "quiz_id")
			if err != nil {
				return nil, err
			}
			return e.client.UpdateQuiz(ctx, courseID, quizID, collectFields(args, "title", "description", "time_limit", "published"))
		},
		"delete_quiz": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, quizID, err := reqInt2(args, "course_id", "quiz_id")
			if err != nil {
				return nil, err
			}
			return e.client.DeleteQuiz(ctx, courseID, quizID)
		},

		"list_discussions": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			return e.client.ListDiscussions(ctx, courseID, argString(args, "search_term"), "")
		},
		"list_announcements": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			return e.client.ListAnnouncements(ctx, courseID)
		},
		"get_discussion": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, topicID, err := reqInt2(args, "course_id", "topic_id")
			if err != nil {
				return nil, err
			}
			return e.client.GetDiscussion(ctx, courseID, topicID)
		},
		"create_discussion": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			title, err := reqString(args, "title")
			if err != nil {
				return nil, err
			}
			message, err := reqString(args, "message")
			if err != nil {
				return nil, err
			}
			fields := collectFields(args, "discussion_type", "published", "is_announcement", "pinned", "require_initial_post")
			return e.client.CreateDiscussion(ctx, courseID, title, message, fields)
		},
		"create_announcement": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, err := reqInt(args, "course_id")
			if err != nil {
				return nil, err
			}
			title, err := reqString(args, "title")
			if err != nil {
				return nil, err
			}
			message, err := reqString(args, "message")
			if err != nil {
				return nil, err
			}
			return e.client.CreateAnnouncement(ctx, courseID, title, message, collectFields(args, "published"))
		},
		"update_discussion": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, topicID, err := reqInt2(args, "course_id", "topic_id")
			if err != nil {
				return nil, err
			}
			return e.client.UpdateDiscussion(ctx, courseID, topicID, collectFields(args, "title", "message", "published"))
		},
		"delete_discussion": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, topicID, err := reqInt2(args, "course_id", "topic_id")
			if err != nil {
				return nil, err
			}
			return e.client.DeleteDiscussion(ctx, courseID, topicID)
		},
		"post_discussion_entry": func(ctx context.Context, args map[string]any) (any, error) {
			courseID, topicID, err := reqInt2(args, "course_id", "topic_id")
			if err != nil {
				return nil, err
			}
			message, err := reqString(args, "message")
			if err != nil {
				return nil, err
			}
			return e.client.PostDiscussionEntry(ctx, courseID, topicID, message)
		},
	}
}

// ---- argument helpers ----

func argInt(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func reqInt(args map[string]any, key string) (int, error) {
	n, ok := argInt(args, key)
	if !ok {
		return 0, fmt.Errorf("missing or invalid required parameter %q", key)
	}
	return n, nil
}

func reqInt2(args map[string]any, key1, key2 string) (int, int, error) {
	a, err := reqInt(args, key1)
	if err != nil {
		return 0, 0, err
	}
	b, err := reqInt(args, key2)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func reqString(args map[string]any, key string) (string, error) {
	s := argString(args, key)
	if s == "" {
		return "", fmt.Errorf("missing required parameter %q", key)
	}
	return s, nil
}

func argStringSlice(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// collectFields copies the named keys that are present in args, so optional
// parameters the model omitted stay omitted from the API payload.
func collectFields(args map[string]any, keys ...string) map[string]any {
	fields := map[string]any{}
	for _, key := range keys {
		if v, ok := args[key]; ok {
			fields[key] = v
		}
	}
	return fields
}
