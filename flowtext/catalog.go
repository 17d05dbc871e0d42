// Package flowtext holds the localized text for the zone setup flow and
// services. Each language is a Catalog; the JSON form follows the host
// localization table layout with "title", "config", "options" and
// "services" keys.
package flowtext

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

// Field identifiers used by the setup flow. The "name" field belongs to
// the user step, all others to the init step.
const (
	FieldName         = "name"
	FieldEToEntityID  = "eto_entity_id"
	FieldRainEntityID = "rain_entity_id"
	FieldThroughput   = "throughput_mm_h"
	FieldScale        = "scale"
	FieldMaxMinutes   = "max_mins"
)

// Flow error identifiers.
const (
	ErrorAlreadyConfigured = "already_configured"
	ErrorUnknown           = "unknown"
)

// InitFields lists the identifiers every init step must label and
// describe.
var InitFields = []string{
	FieldEToEntityID,
	FieldRainEntityID,
	FieldThroughput,
	FieldScale,
	FieldMaxMinutes,
}

// Step is the text for a single form of the setup flow.
type Step struct {
	Title           string            `json:"title,omitempty"`
	Description     string            `json:"description,omitempty"`
	Data            map[string]string `json:"data"`
	DataDescription map[string]string `json:"data_description,omitempty"`
}

// Flow groups the steps and errors of the config or options flow.
type Flow struct {
	Step  map[string]Step   `json:"step"`
	Error map[string]string `json:"error,omitempty"`
}

// Service is the text describing a single service action.
type Service struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Services holds the text for all services offered by the integration.
type Services struct {
	Reload Service `json:"reload"`
}

// Catalog is the full localization table for one language.
type Catalog struct {
	ID   string `json:"-"`
	Name string `json:"-"`

	Title    string   `json:"title"`
	Config   Flow     `json:"config"`
	Options  Flow     `json:"options"`
	Services Services `json:"services"`

	// common resolves host key references such as
	// "common::action::reload".
	common map[string]string
}

var keyRefPattern = regexp.MustCompile(`\[%key:([a-zA-Z0-9_:]+)%\]`)

// Expand resolves host key references of the form
// "[%key:common::action::reload%]" in s against the catalog's common
// key table.
func (c *Catalog) Expand(s string) (string, error) {
	var missing []string

	expanded := keyRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := keyRefPattern.FindStringSubmatch(match)[1]

		if value, ok := c.common[key]; ok {
			return value
		}

		missing = append(missing, key)
		return match
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("unresolvable key references %q", missing)
	}

	return expanded, nil
}

func (c *Catalog) expandStep(s Step) (Step, error) {
	var err error

	if s.Title, err = c.Expand(s.Title); err != nil {
		return s, err
	}
	if s.Description, err = c.Expand(s.Description); err != nil {
		return s, err
	}

	expandMap := func(m map[string]string) (map[string]string, error) {
		if m == nil {
			return nil, nil
		}
		out := make(map[string]string, len(m))
		for k, v := range m {
			if out[k], err = c.Expand(v); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	if s.Data, err = expandMap(s.Data); err != nil {
		return s, err
	}
	if s.DataDescription, err = expandMap(s.DataDescription); err != nil {
		return s, err
	}

	return s, nil
}

func (c *Catalog) expandFlow(f Flow) (Flow, error) {
	var err error

	steps := make(map[string]Step, len(f.Step))
	for name, step := range f.Step {
		if steps[name], err = c.expandStep(step); err != nil {
			return f, err
		}
	}
	f.Step = steps

	if f.Error != nil {
		errs := make(map[string]string, len(f.Error))
		for name, text := range f.Error {
			if errs[name], err = c.Expand(text); err != nil {
				return f, err
			}
		}
		f.Error = errs
	}

	return f, nil
}

// Resolved returns a copy of the catalog with all host key references
// expanded.
func (c *Catalog) Resolved() (*Catalog, error) {
	out := *c
	var err error

	if out.Title, err = c.Expand(c.Title); err != nil {
		return nil, err
	}
	if out.Config, err = c.expandFlow(c.Config); err != nil {
		return nil, err
	}
	if out.Options, err = c.expandFlow(c.Options); err != nil {
		return nil, err
	}
	if out.Services.Reload.Name, err = c.Expand(c.Services.Reload.Name); err != nil {
		return nil, err
	}
	if out.Services.Reload.Description, err = c.Expand(c.Services.Reload.Description); err != nil {
		return nil, err
	}

	return &out, nil
}

// HostTable renders the catalog as the JSON document consumed by the
// host's localization loader, with key references expanded.
func (c *Catalog) HostTable() ([]byte, error) {
	resolved, err := c.Resolved()
	if err != nil {
		return nil, err
	}

	return json.Marshal(resolved)
}

// Validate checks that the catalog covers everything the setup flow
// refers to: labels and descriptions for all fields, both flow errors and
// the reload service text.
func (c *Catalog) Validate() error {
	userStep, ok := c.Config.Step["user"]
	if !ok {
		return fmt.Errorf("catalog %s: config flow lacks user step", c.ID)
	}
	if userStep.Data[FieldName] == "" {
		return fmt.Errorf("catalog %s: user step lacks %q label", c.ID, FieldName)
	}

	for flowName, flow := range map[string]Flow{"config": c.Config, "options": c.Options} {
		initStep, ok := flow.Step["init"]
		if !ok {
			return fmt.Errorf("catalog %s: %s flow lacks init step", c.ID, flowName)
		}

		for _, field := range InitFields {
			if initStep.Data[field] == "" {
				return fmt.Errorf("catalog %s: %s init step lacks %q label",
					c.ID, flowName, field)
			}
			if initStep.DataDescription[field] == "" {
				return fmt.Errorf("catalog %s: %s init step lacks %q description",
					c.ID, flowName, field)
			}
		}
	}

	for _, name := range []string{ErrorAlreadyConfigured, ErrorUnknown} {
		if c.Config.Error[name] == "" {
			return fmt.Errorf("catalog %s: config flow lacks %q error text", c.ID, name)
		}
	}

	if c.Services.Reload.Name == "" || c.Services.Reload.Description == "" {
		return fmt.Errorf("catalog %s: reload service text incomplete", c.ID)
	}

	return nil
}

var catalogs = map[string]*Catalog{
	English.ID: English,
	German.ID:  German,
}

// All returns all known catalogs sorted by language ID.
func All() []*Catalog {
	result := make([]*Catalog, 0, len(catalogs))
	for _, c := range catalogs {
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// LookupByID finds the catalog for a language ID.
func LookupByID(id string) (*Catalog, error) {
	if c, ok := catalogs[id]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("unknown language %q", id)
}
