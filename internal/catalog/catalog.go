// Package catalog holds the static descriptors for every LMS action the
// assistant may execute. The catalog is built once at startup; action
// names are unique and lookups are by name.
package catalog

import "fmt"

// ParamType is the declared wire type of an action parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
)

type Parameter struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
}

// Action describes one named operation: its parameter schema is ordered,
// matching the order parameters are presented to the model.
type Action struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// Param returns the declared parameter with the given name.
func (a Action) Param(name string) (Parameter, bool) {
	for _, p := range a.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// HasParam reports whether the schema declares the given parameter name.
func (a Action) HasParam(name string) bool {
	_, ok := a.Param(name)
	return ok
}

// RequiredParams returns the names of all required parameters in order.
func (a Action) RequiredParams() []string {
	var names []string
	for _, p := range a.Parameters {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Catalog is an ordered action list with a name index.
type Catalog struct {
	actions []Action
	byName  map[string]Action
}

// New builds a catalog from the given actions. Duplicate names are an error.
func New(actions []Action) (*Catalog, error) {
	c := &Catalog{
		actions: actions,
		byName:  make(map[string]Action, len(actions)),
	}
	for _, a := range actions {
		if _, exists := c.byName[a.Name]; exists {
			return nil, fmt.Errorf("action %q declared twice", a.Name)
		}
		c.byName[a.Name] = a
	}
	return c, nil
}

// Default returns the full Canvas action catalog.
func Default() *Catalog {
	var actions []Action
	actions = append(actions, courseActions()...)
	actions = append(actions, moduleActions()...)
	actions = append(actions, pageActions()...)
	actions = append(actions, assignmentActions()...)
	actions = append(actions, quizActions()...)
	actions = append(actions, discussionActions()...)
	c, err := New(actions)
	if err != nil {
		// Duplicate names in the static tables are a programming error.
		panic(err)
	}
	return c
}

// Get returns the action with the given name.
func (c *Catalog) Get(name string) (Action, bool) {
	a, ok := c.byName[name]
	return a, ok
}

// List returns all actions in declaration order.
func (c *Catalog) List() []Action {
	out := make([]Action, len(c.actions))
	copy(out, c.actions)
	return out
}

// Names returns all action names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.actions))
	for i, a := range c.actions {
		names[i] = a.Name
	}
	return names
}

// Len returns the number of actions in the catalog.
func (c *Catalog) Len() int {
	return len(c.actions)
}
