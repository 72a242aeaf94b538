package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/filenav/internal/commands"
	"github.com/starford/filenav/internal/navigation"
	"github.com/starford/filenav/internal/navservice"
	"github.com/starford/filenav/internal/settings"
)

// Services are the domain components the handlers delegate to.
type Services struct {
	Settings  *settings.Store
	Commands  *commands.Registry
	Navigator *navservice.Service
	Documents navservice.DocumentSource
}

// Handler holds API route handlers.
type Handler struct {
	svc Services
}

// NewHandler creates a new Handler.
func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// ListGroups handles GET /api/groups.
//
//	@Summary		Get all groups and their rules
//	@Tags			groups
//	@Produce		json
//	@Success		200	{object}	settings.Settings
//	@Security		BearerAuth
//	@Router			/groups [get]
func (h *Handler) ListGroups(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Settings.Snapshot())
}

// CreateGroup handles POST /api/groups.
//
//	@Summary		Create an empty group
//	@Tags			groups
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateGroupRequest	true	"Group to create"
//	@Success		201		{object}	settings.Group
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/groups [post]
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if !decode(w, r, &req) {
		return
	}
	g, err := h.svc.Settings.AddGroup(r.Context(), req.Name)
	if err != nil {
		writeError(w, "create group", err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// RenameGroup handles PATCH /api/groups/{groupID}.
//
//	@Summary		Rename a group
//	@Tags			groups
//	@Accept			json
//	@Produce		json
//	@Param			groupID	path		string				true	"Group id"
//	@Param			body	body		RenameGroupRequest	true	"New name"
//	@Success		200		{object}	settings.Group
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/groups/{groupID} [patch]
func (h *Handler) RenameGroup(w http.ResponseWriter, r *http.Request) {
	var req RenameGroupRequest
	if !decode(w, r, &req) {
		return
	}
	g, err := h.svc.Settings.RenameGroup(r.Context(), chi.URLParam(r, "groupID"), *req.Name)
	if err != nil {
		writeError(w, "rename group", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// DeleteGroup handles DELETE /api/groups/{groupID}.
//
//	@Summary		Delete a group and its rules
//	@Tags			groups
//	@Param			groupID	path	string	true	"Group id"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/groups/{groupID} [delete]
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Settings.RemoveGroup(r.Context(), chi.URLParam(r, "groupID")); err != nil {
		writeError(w, "delete group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateRule handles POST /api/groups/{groupID}/rules.
//
//	@Summary		Append a rule to a group
//	@Tags			rules
//	@Accept			json
//	@Produce		json
//	@Param			groupID	path		string		true	"Group id"
//	@Param			body	body		RuleRequest	false	"Rule fields"
//	@Success		201		{object}	settings.Rule
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/groups/{groupID}/rules [post]
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req RuleRequest
	if !decode(w, r, &req) {
		return
	}
	rule, err := h.svc.Settings.AddRule(r.Context(), chi.URLParam(r, "groupID"), req.Rule(settings.NewID()))
	if err != nil {
		writeError(w, "create rule", err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// ReplaceRule handles PUT /api/groups/{groupID}/rules/{ruleID}.
//
//	@Summary		Replace a rule, keeping its position
//	@Tags			rules
//	@Accept			json
//	@Produce		json
//	@Param			groupID	path		string		true	"Group id"
//	@Param			ruleID	path		string		true	"Rule id"
//	@Param			body	body		RuleRequest	true	"Rule fields"
//	@Success		200		{object}	settings.Rule
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/groups/{groupID}/rules/{ruleID} [put]
func (h *Handler) ReplaceRule(w http.ResponseWriter, r *http.Request) {
	var req RuleRequest
	if !decode(w, r, &req) {
		return
	}
	rule := req.Rule(chi.URLParam(r, "ruleID"))
	rule, err := h.svc.Settings.UpdateRule(r.Context(), chi.URLParam(r, "groupID"), rule)
	if err != nil {
		writeError(w, "replace rule", err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// DeleteRule handles DELETE /api/groups/{groupID}/rules/{ruleID}.
//
//	@Summary		Delete a rule
//	@Tags			rules
//	@Param			groupID	path	string	true	"Group id"
//	@Param			ruleID	path	string	true	"Rule id"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/groups/{groupID}/rules/{ruleID} [delete]
func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Settings.RemoveRule(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "ruleID"))
	if err != nil {
		writeError(w, "delete rule", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveRule handles POST /api/groups/{groupID}/rules/{ruleID}/move.
//
//	@Summary		Move a rule up or down in priority
//	@Tags			rules
//	@Accept			json
//	@Produce		json
//	@Param			groupID	path		string			true	"Group id"
//	@Param			ruleID	path		string			true	"Rule id"
//	@Param			body	body		MoveRuleRequest	true	"Offset (-1 or 1)"
//	@Success		200		{object}	RulesResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/groups/{groupID}/rules/{ruleID}/move [post]
func (h *Handler) MoveRule(w http.ResponseWriter, r *http.Request) {
	var req MoveRuleRequest
	if !decode(w, r, &req) {
		return
	}
	rules, err := h.svc.Settings.MoveRule(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "ruleID"), req.Offset)
	if err != nil {
		writeError(w, "move rule", err)
		return
	}
	writeJSON(w, http.StatusOK, RulesResponse{Rules: rules})
}

// ListCommands handles GET /api/commands.
//
//	@Summary		List the navigation commands of every group
//	@Tags			commands
//	@Produce		json
//	@Success		200	{array}	commands.Descriptor
//	@Security		BearerAuth
//	@Router			/commands [get]
func (h *Handler) ListCommands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Commands.List())
}

// RunCommand handles POST /api/commands/{commandID}.
//
//	@Summary		Invoke a navigation command
//	@Tags			commands
//	@Accept			json
//	@Produce		json
//	@Param			commandID	path		string				true	"Full or base command id"
//	@Param			body		body		RunCommandRequest	false	"Active document"
//	@Success		200			{object}	Outcome
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/commands/{commandID} [post]
func (h *Handler) RunCommand(w http.ResponseWriter, r *http.Request) {
	var req RunCommandRequest
	if !decode(w, r, &req) {
		return
	}
	cmd, err := h.svc.Commands.Lookup(chi.URLParam(r, "commandID"))
	if err != nil {
		writeError(w, "run command", err)
		return
	}
	out, err := h.svc.Navigator.RunCommand(r.Context(), cmd.ID, req.ActivePath)
	if err != nil {
		writeError(w, "run command", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Navigate handles POST /api/navigate.
//
//	@Summary		Navigate within a group relative to the active document
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NavigateRequest	true	"Group, direction and active document"
//	@Success		200		{object}	Outcome
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/navigate [post]
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.Navigator.Navigate(r.Context(), req.GroupID, navigation.Direction(req.Direction), req.ActivePath)
	if err != nil {
		writeError(w, "navigate", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List the indexed documents rules are evaluated against
//	@Tags			documents
//	@Produce		json
//	@Success		200	{array}	models.Document
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Documents.ListDocuments(r.Context())
	if err != nil {
		writeError(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}
