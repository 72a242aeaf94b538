package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/filenav/internal/navigation"
	"github.com/starford/filenav/internal/navservice"
	"github.com/starford/filenav/internal/settings"
)

// CreateGroupRequest is the request body for creating a group.
type CreateGroupRequest struct {
	Name string `json:"name" example:"Daily notes"`
}

// Validate validates the request.
func (r CreateGroupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(0, 200)),
	)
}

// RenameGroupRequest is the request body for renaming a group.
type RenameGroupRequest struct {
	Name *string `json:"name" example:"Projects" validate:"required"`
}

// Validate validates the request.
func (r RenameGroupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NotNil, validation.Length(0, 200)),
	)
}

// RuleRequest carries rule fields for create and replace. Omitted fields take
// their defaults; fields that do not apply to the filter or sort type are
// dropped.
type RuleRequest struct {
	FilterType    string  `json:"filterType" example:"folder"`
	FilterValue   string  `json:"filterValue" example:"Journal"`
	PropertyKey   *string `json:"propertyKey,omitempty" example:"status"`
	PropertyValue *string `json:"propertyValue,omitempty" example:"done"`
	SortType      string  `json:"sortType" example:"created"`
	SortDirection string  `json:"sortDirection" example:"desc"`
	SortKey       *string `json:"sortKey,omitempty" example:"due"`
	SortValueType *string `json:"sortValueType,omitempty" example:"date"`
}

// Validate rejects unknown enum values. Empty values are allowed.
func (r RuleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FilterType, validation.In(
			string(settings.FilterTag), string(settings.FilterFolder), string(settings.FilterProperty))),
		validation.Field(&r.SortType, validation.In(
			string(settings.SortCreated), string(settings.SortModified),
			string(settings.SortFilename), string(settings.SortFrontmatter))),
		validation.Field(&r.SortDirection, validation.In(string(settings.Asc), string(settings.Desc))),
		validation.Field(&r.SortValueType, validation.In(
			string(settings.ValueString), string(settings.ValueNumber), string(settings.ValueDate))),
	)
}

// Rule converts the request into a settings rule with the given id.
func (r RuleRequest) Rule(id string) settings.Rule {
	rule := settings.Rule{
		ID:            id,
		FilterType:    settings.FilterType(r.FilterType),
		FilterValue:   r.FilterValue,
		SortType:      settings.SortType(r.SortType),
		SortDirection: settings.SortDirection(r.SortDirection),
		SortKey:       r.SortKey,
		PropertyKey:   r.PropertyKey,
		PropertyValue: r.PropertyValue,
	}
	if r.SortValueType != nil {
		vt := settings.SortValueType(*r.SortValueType)
		rule.SortValueType = &vt
	}
	rule.Normalize()
	return rule
}

// MoveRuleRequest moves a rule one position up (-1) or down (1).
type MoveRuleRequest struct {
	Offset int `json:"offset" example:"-1" validate:"required"`
}

// Validate validates the request.
func (r MoveRuleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Offset, validation.Required, validation.In(-1, 1)),
	)
}

// RunCommandRequest is the request body for invoking a command.
type RunCommandRequest struct {
	ActivePath string `json:"activePath" example:"Journal/2024-01-02.md"`
}

// NavigateRequest is the request body for POST /navigate.
type NavigateRequest struct {
	GroupID    string `json:"groupId" example:"7f1c..." validate:"required"`
	Direction  string `json:"direction" example:"next" validate:"required"`
	ActivePath string `json:"activePath" example:"Journal/2024-01-02.md"`
}

// Validate validates the request.
func (r NavigateRequest) Validate() error {
	dirs := make([]any, len(navigation.Directions))
	for i, d := range navigation.Directions {
		dirs[i] = string(d)
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.GroupID, validation.Required),
		validation.Field(&r.Direction, validation.Required, validation.In(dirs...)),
	)
}

// Outcome is the navigation result (aliased from the domain layer).
type Outcome = navservice.Outcome

// RulesResponse wraps a group's reordered rules.
type RulesResponse struct {
	Rules []settings.Rule `json:"rules" validate:"required"`
}
