package catalog

import "testing"

func TestDefaultCatalogUniqueNames(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("default catalog is empty")
	}
	seen := make(map[string]bool)
	for _, name := range c.Names() {
		if seen[name] {
			t.Errorf("duplicate action name %q", name)
		}
		seen[name] = true
	}
}

func TestGetKnownAction(t *testing.T) {
	c := Default()
	a, ok := c.Get("create_page")
	if !ok {
		t.Fatal("create_page not in catalog")
	}
	want := []string{"course_id", "title", "body"}
	got := a.RequiredParams()
	if len(got) != len(want) {
		t.Fatalf("required params = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("required[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetUnknownAction(t *testing.T) {
	c := Default()
	if _, ok := c.Get("launch_rocket"); ok {
		t.Error("unknown action should not resolve")
	}
}

func TestParamTypes(t *testing.T) {
	c := Default()
	tests := []struct {
		action string
		param  string
		want   ParamType
	}{
		{"get_course", "course_id", TypeInteger},
		{"create_page", "published", TypeBoolean},
		{"create_assignment", "points_possible", TypeNumber},
		{"create_assignment", "submission_types", TypeArray},
		{"list_modules", "include", TypeArray},
		{"create_announcement", "message", TypeString},
	}
	for _, tt := range tests {
		a, ok := c.Get(tt.action)
		if !ok {
			t.Fatalf("action %q missing", tt.action)
		}
		p, ok := a.Param(tt.param)
		if !ok {
			t.Fatalf("%s: parameter %q missing", tt.action, tt.param)
		}
		if p.Type != tt.want {
			t.Errorf("%s.%s type = %s, want %s", tt.action, tt.param, p.Type, tt.want)
		}
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]Action{{Name: "a"}, {Name: "a"}})
	if err == nil {
		t.Error("expected error for duplicate action names")
	}
}

func TestEveryActionDeclaresParameters(t *testing.T) {
	for _, a := range Default().List() {
		if a.Description == "" {
			t.Errorf("%s: missing description", a.Name)
		}
		if len(a.Parameters) == 0 {
			t.Errorf("%s: no parameters declared", a.Name)
		}
		if a.Name != "list_courses" && a.Name != "create_course" && !a.HasParam("course_id") {
			t.Errorf("%s: expected a course_id parameter", a.Name)
		}
	}
}
