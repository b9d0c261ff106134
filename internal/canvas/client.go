// Package canvas talks to the Canvas LMS REST API and exposes the catalog
// actions as an executor for the engine.
package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx response from Canvas.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("canvas api error: status %d - %s", e.Status, e.Body)
}

// Client is a thin wrapper over the Canvas REST API (/api/v1).
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues one API request. Responses decode into []any for collection
// endpoints and map[string]any otherwise; an empty body decodes to an empty
// object, matching what callers expect from delete endpoints.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body any) (any, error) {
	u := c.baseURL + "/api/v1/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("canvas: encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("canvas: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("canvas: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("canvas: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("canvas: decode response: %w", err)
	}
	return result, nil
}

func addInclude(q url.Values, include []string) {
	for _, inc := range include {
		q.Add("include[]", inc)
	}
}

// ---- courses ----

func (c *Client) ListCourses(ctx context.Context, enrollmentType, enrollmentState string, include []string) (any, error) {
	q := url.Values{}
	if enrollmentType != "" {
		q.Set("enrollment_type", enrollmentType)
	}
	if enrollmentState != "" {
		q.Set("enrollment_state", enrollmentState)
	}
	addInclude(q, include)
	return c.do(ctx, http.MethodGet, "courses", q, nil)
}

func (c *Client) GetCourse(ctx context.Context, courseID int, include []string) (any, error) {
	q := url.Values{}
	addInclude(q, include)
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d", courseID), q, nil)
}

func (c *Client) CreateCourse(ctx context.Context, accountID int, name, courseCode string, fields map[string]any) (any, error) {
	course := map[string]any{
		"name":        name,
		"course_code": courseCode,
	}
	if _, ok := fields["is_public"]; !ok {
		course["is_public"] = false
	}
	for k, v := range fields {
		course[k] = v
	}
	body := map[string]any{"course": course}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("accounts/%d/courses", accountID), nil, body)
}

// UpdateCourse sends course fields nested under "course" and the lifecycle
// event, when present, at the top level as Canvas requires.
func (c *Client) UpdateCourse(ctx context.Context, courseID int, fields map[string]any, event string) (any, error) {
	body := map[string]any{"course": fields}
	if event != "" {
		body["event"] = event
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("courses/%d", courseID), nil, body)
}

func (c *Client) DeleteCourse(ctx context.Context, courseID int, event string) (any, error) {
	q := url.Values{}
	q.Set("event", event)
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("courses/%d", courseID), q, nil)
}

// ---- modules ----

func (c *Client) ListModules(ctx context.Context, courseID int, include []string) (any, error) {
	q := url.Values{}
	addInclude(q, include)
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/modules", courseID), q, nil)
}

func (c *Client) GetModule(ctx context.Context, courseID, moduleID int, include []string) (any, error) {
	q := url.Values{}
	addInclude(q, include)
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/modules/%d", courseID, moduleID), q, nil)
}

func (c *Client) CreateModule(ctx context.Context, courseID int, name string, fields map[string]any) (any, error) {
	module := map[string]any{
		"name":                        name,
		"require_sequential_progress": false,
		"publish_final_grade":         false,
	}
	for k, v := range fields {
		module[k] = v
	}
	body := map[string]any{"module": module}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("courses/%d/modules", courseID), nil, body)
}

func (c *Client) UpdateModule(ctx context.Context, courseID, moduleID int, fields map[string]any) (any, error) {
	body := map[string]any{"module": fields}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("courses/%d/modules/%d", courseID, moduleID), nil, body)
}

func (c *Client) DeleteModule(ctx context.Context, courseID, moduleID int) (any, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("courses/%d/modules/%d", courseID, moduleID), nil, nil)
}

func (c *Client) CreateModuleItem(ctx context.Context, courseID, moduleID int, title, itemType string, fields map[string]any) (any, error) {
	item := map[string]any{
		"title":  title,
		"type":   itemType,
		"indent": 0,
	}
	for k, v := range fields {
		item[k] = v
	}
	body := map[string]any{"module_item": item}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("courses/%d/modules/%d/items", courseID, moduleID), nil, body)
}

// ---- pages ----

func (c *Client) ListPages(ctx context.Context, courseID int, searchTerm string, published *bool) (any, error) {
	q := url.Values{}
	if searchTerm != "" {
		q.Set("search_term", searchTerm)
	}
	if published != nil {
		q.Set("published", fmt.Sprintf("%t", *published))
	}
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/pages", courseID), q, nil)
}

func (c *Client) GetPage(ctx context.Context, courseID int, urlOrID string) (any, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/pages/%s", courseID, url.PathEscape(urlOrID)), nil, nil)
}

func (c *Client) CreatePage(ctx context.Context, courseID int, title, pageBody string, fields map[string]any) (any, error) {
	page := map[string]any{
		"title":            title,
		"body":             pageBody,
		"editing_roles":    "teachers",
		"notify_of_update": false,
		"published":        true,
		"front_page":       false,
	}
	for k, v := range fields {
		page[k] = v
	}
	body := map[string]any{"wiki_page": page}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("courses/%d/pages", courseID), nil, body)
}

func (c *Client) UpdatePage(ctx context.Context, courseID int, urlOrID string, fields map[string]any) (any, error) {
	body := map[string]any{"wiki_page": fields}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("courses/%d/pages/%s", courseID, url.PathEscape(urlOrID)), nil, body)
}

func (c *Client) DeletePage(ctx context.Context, courseID int, urlOrID string) (any, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("courses/%d/pages/%s", courseID, url.PathEscape(urlOrID)), nil, nil)
}

// ---- assignments ----

func (c *Client) ListAssignments(ctx context.Context, courseID int, searchTerm, bucket, orderBy string) (any, error) {
	if orderBy == "" {
		orderBy = "position"
	}
	q := url.Values{}
	q.Set("order_by", orderBy)
	if searchTerm != "" {
		q.Set("search_term", searchTerm)
	}
	if bucket != "" {
		q.Set("bucket", bucket)
	}
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/assignments", courseID), q, nil)
}

func (c *Client) GetAssignment(ctx context.Context, courseID, assignmentID int, include []string) (any, error) {
	q := url.Values{}
	addInclude(q, include)
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/assignments/%d", courseID, assignmentID), q, nil)
}

func (c *Client) CreateAssignment(ctx context.Context, courseID int, name string, fields map[string]any) (any, error) {
	assignment := map[string]any{
		"name":         name,
		"published":    false,
		"grading_type": "points",
	}
	for k, v := range fields {
		assignment[k] = v
	}
	body := map[string]any{"assignment": assignment}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("courses/%d/assignments", courseID), nil, body)
}

func (c *Client) UpdateAssignment(ctx context.Context, courseID, assignmentID int, fields map[string]any) (any, error) {
	body := map[string]any{"assignment": fields}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("courses/%d/assignments/%d", courseID, assignmentID), nil, body)
}

func (c *Client) DeleteAssignment(ctx context.Context, courseID, assignmentID int) (any, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("courses/%d/assignments/%d", courseID, assignmentID), nil, nil)
}

// ---- quizzes ----

func (c *Client) ListQuizzes(ctx context.Context, courseID int, searchTerm string) (any, error) {
	q := url.Values{}
	if searchTerm != "" {
		q.Set("search_term", searchTerm)
	}
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/quizzes", courseID), q, nil)
}

func (c *Client) GetQuiz(ctx context.Context, courseID, quizID int) (any, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/quizzes/%d", courseID, quizID), nil, nil)
}

func (c *Client) CreateQuiz(ctx context.Context, courseID int, title string, fields map[string]any) (any, error) {
	quiz := map[string]any{
		"title":            title,
		"quiz_type":        "assignment",
		"shuffle_answers":  false,
		"allowed_attempts": 1,
		"scoring_policy":   "keep_highest",
		"published":        false,
	}
	for k, v := range fields {
		quiz[k] = v
	}
	body := map[string]any{"quiz": quiz}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("courses/%d/quizzes", courseID), nil, body)
}

func (c *Client) UpdateQuiz(ctx context.Context, courseID, quizID int, fields map[string]any) (any, error) {
	body := map[string]any{"quiz": fields}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("courses/%d/quizzes/%d", courseID, quizID), nil, body)
}

func (c *Client) DeleteQuiz(ctx context.Context, courseID, quizID int) (any, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("courses/%d/quizzes/%d", courseID, quizID), nil, nil)
}

// ---- discussions ----

func (c *Client) ListDiscussions(ctx context.Context, courseID int, searchTerm, orderBy string) (any, error) {
	if orderBy == "" {
		orderBy = "position"
	}
	q := url.Values{}
	q.Set("order_by", orderBy)
	if searchTerm != "" {
		q.Set("search_term", searchTerm)
	}
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/discussion_topics", courseID), q, nil)
}

// ListAnnouncements lists discussion topics filtered to announcements.
func (c *Client) ListAnnouncements(ctx context.Context, courseID int) (any, error) {
	q := url.Values{}
	q.Set("only_announcements", "true")
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/discussion_topics", courseID), q, nil)
}

func (c *Client) GetDiscussion(ctx context.Context, courseID, topicID int) (any, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("courses/%d/discussion_topics/%d", courseID, topicID), nil, nil)
}

// CreateDiscussion posts a flat topic body; discussion topics are the one
// Canvas resource that does not nest fields under a wrapper key.
func (c *Client) CreateDiscussion(ctx context.Context, courseID int, title, message string, fields map[string]any) (any, error) {
	body := map[string]any{
		"title":                title,
		"message":              message,
		"discussion_type":      "side_comment",
		"published":            true,
		"is_announcement":      false,
		"pinned":               false,
		"require_initial_post": false,
	}
	for k, v := range fields {
		body[k] = v
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("courses/%d/discussion_topics", courseID), nil, body)
}

// CreateAnnouncement is a discussion with is_announcement forced on.
func (c *Client) CreateAnnouncement(ctx context.Context, courseID int, title, message string, fields map[string]any) (any, error) {
	merged := map[string]any{}
	for k, v := range fields {
		merged[k] = v
	}
	merged["is_announcement"] = true
	return c.CreateDiscussion(ctx, courseID, title, message, merged)
}

func (c *Client) UpdateDiscussion(ctx context.Context, courseID, topicID int, fields map[string]any) (any, error) {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("courses/%d/discussion_topics/%d", courseID, topicID), nil, fields)
}

func (c *Client) DeleteDiscussion(ctx context.Context, courseID, topicID int) (any, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("courses/%d/discussion_topics/%d", courseID, topicID), nil, nil)
}

func (c *Client) PostDiscussionEntry(ctx context.Context, courseID, topicID int, message string) (any, error) {
	body := map[string]any{"message": message}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("courses/%d/discussion_topics/%d/entries", courseID, topicID), nil, body)
}
