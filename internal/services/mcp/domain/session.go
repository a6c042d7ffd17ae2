package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/ctavolazzi/AI-DnD-sub002/internal/platform/errors"
	showcase "github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/domain"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/i18n"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultTurns = 6
	defaultSeed  = 11

	minAdvanceSteps = 1
	maxAdvanceSteps = 5
)

// SessionService is the slice of the session manager the MCP tools use.
type SessionService interface {
	Create(ctx context.Context, params session.CreateParams) (session.Payload, error)
	Get(id string) (session.Payload, error)
	Advance(id string, steps int) (session.Payload, error)
	ActiveIDs() []string
}

// SessionCombatant represents one roster member's state at a frame.
type SessionCombatant struct {
	Name      string `json:"name" jsonschema:"combatant name"`
	CharClass string `json:"char_class" jsonschema:"character class"`
	HP        int    `json:"hp" jsonschema:"current hit points"`
	MaxHP     int    `json:"max_hp" jsonschema:"maximum hit points"`
	Alive     bool   `json:"alive" jsonschema:"whether the combatant is still standing"`
}

// SessionFrame represents one turn snapshot in a tool result.
type SessionFrame struct {
	Turn             int                `json:"turn" jsonschema:"turn number, 0 is the setup frame"`
	Players          []SessionCombatant `json:"players" jsonschema:"party state at this turn"`
	Enemies          []SessionCombatant `json:"enemies" jsonschema:"enemy state at this turn"`
	NewEvents        []string           `json:"new_events" jsonschema:"narration produced by this turn"`
	CumulativeEvents []string           `json:"cumulative_events" jsonschema:"rolling log of recent narration"`
	IsFinal          bool               `json:"is_final" jsonschema:"whether this is the closing frame"`
}

// SessionResult represents the MCP tool output for session operations. It
// carries the frames visible at the session's cursor, never the full run.
type SessionResult struct {
	SessionID  string         `json:"session_id" jsonschema:"session identifier"`
	QuestHook  string         `json:"quest_hook" jsonschema:"opening narrative hook"`
	Frames     []SessionFrame `json:"frames" jsonschema:"frames visible at the current cursor"`
	Conclusion string         `json:"conclusion,omitempty" jsonschema:"closing narration, present once the run is complete"`
	IsComplete bool           `json:"is_complete" jsonschema:"whether the final frame has been revealed"`
	TurnIndex  int            `json:"turn_index" jsonschema:"turn number of the newest visible frame"`
}

func sessionCombatants(members []showcase.Combatant) []SessionCombatant {
	out := make([]SessionCombatant, 0, len(members))
	for _, m := range members {
		out = append(out, SessionCombatant{
			Name:      m.Name,
			CharClass: m.CharClass,
			HP:        m.HP,
			MaxHP:     m.MaxHP,
			Alive:     m.Alive,
		})
	}
	return out
}

func sessionFrames(frames []showcase.TurnFrame) []SessionFrame {
	out := make([]SessionFrame, 0, len(frames))
	for _, frame := range frames {
		out = append(out, SessionFrame{
			Turn:             frame.Turn,
			Players:          sessionCombatants(frame.Players),
			Enemies:          sessionCombatants(frame.Enemies),
			NewEvents:        frame.NewEvents,
			CumulativeEvents: frame.CumulativeEvents,
			IsFinal:          frame.IsFinal,
		})
	}
	return out
}

func sessionResultFrom(payload session.Payload) SessionResult {
	result := SessionResult{
		SessionID:  payload.SessionID,
		QuestHook:  payload.QuestHook,
		Frames:     sessionFrames(payload.Frames),
		IsComplete: payload.IsComplete,
		TurnIndex:  payload.TurnIndex,
	}
	if payload.Conclusion != nil {
		result.Conclusion = *payload.Conclusion
	}
	return result
}

// SessionCreateInput represents the MCP tool input for creating a session.
type SessionCreateInput struct {
	Turns  *int   `json:"turns,omitempty" jsonschema:"number of combat turns, 1 to 20 (default 6)"`
	Seed   *int64 `json:"seed,omitempty" jsonschema:"random seed; the same seed and turns replay the same story (default 11)"`
	Locale string `json:"locale,omitempty" jsonschema:"narration locale such as en-US or pt-BR (default en-US)"`
}

// SessionCreateTool defines the MCP tool schema for creating a session.
func SessionCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_create",
		Description: "Creates a showcase combat session and reveals its setup frame.",
	}
}

// SessionCreateHandler executes a session create request.
func SessionCreateHandler(manager SessionService) mcp.ToolHandlerFor[SessionCreateInput, SessionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionCreateInput) (*mcp.CallToolResult, SessionResult, error) {
		if manager == nil {
			return nil, SessionResult{}, fmt.Errorf("session manager is not configured")
		}

		turns := defaultTurns
		if input.Turns != nil {
			turns = *input.Turns
		}
		seed := int64(defaultSeed)
		if input.Seed != nil {
			seed = *input.Seed
		}

		locale := ""
		if strings.TrimSpace(input.Locale) != "" {
			resolved, ok := i18n.ParseLocale(input.Locale)
			if !ok {
				return nil, SessionResult{}, apperrors.WithMetadata(apperrors.CodeLocaleUnsupported,
					"locale not supported", map[string]string{"Locale": input.Locale})
			}
			locale = resolved
		}

		runCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		payload, err := manager.Create(runCtx, session.CreateParams{
			Turns:  turns,
			Seed:   seed,
			Locale: locale,
		})
		if err != nil {
			return nil, SessionResult{}, fmt.Errorf("session create failed: %w", err)
		}
		return nil, sessionResultFrom(payload), nil
	}
}

// SessionGetInput represents the MCP tool input for reading a session.
type SessionGetInput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
}

// SessionGetTool defines the MCP tool schema for reading a session.
func SessionGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_get",
		Description: "Reads a session's visible frames without advancing its cursor.",
	}
}

// SessionGetHandler executes a session read request.
func SessionGetHandler(manager SessionService) mcp.ToolHandlerFor[SessionGetInput, SessionResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SessionGetInput) (*mcp.CallToolResult, SessionResult, error) {
		if manager == nil {
			return nil, SessionResult{}, fmt.Errorf("session manager is not configured")
		}

		payload, err := manager.Get(input.SessionID)
		if err != nil {
			return nil, SessionResult{}, fmt.Errorf("session get failed: %w", err)
		}
		return nil, sessionResultFrom(payload), nil
	}
}

// SessionAdvanceInput represents the MCP tool input for advancing a session.
type SessionAdvanceInput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
	Steps     *int   `json:"steps,omitempty" jsonschema:"frames to reveal, 1 to 5 (default 1)"`
}

// SessionAdvanceTool defines the MCP tool schema for advancing a session.
func SessionAdvanceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_advance",
		Description: "Reveals the next frames of a session, clamping at the final frame.",
	}
}

// SessionAdvanceHandler executes a session advance request.
func SessionAdvanceHandler(manager SessionService) mcp.ToolHandlerFor[SessionAdvanceInput, SessionResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SessionAdvanceInput) (*mcp.CallToolResult, SessionResult, error) {
		if manager == nil {
			return nil, SessionResult{}, fmt.Errorf("session manager is not configured")
		}

		steps := minAdvanceSteps
		if input.Steps != nil {
			steps = *input.Steps
		}
		if steps < minAdvanceSteps || steps > maxAdvanceSteps {
			return nil, SessionResult{}, apperrors.WithMetadata(apperrors.CodeStepsOutOfRange,
				"steps out of range", map[string]string{"Min": "1", "Max": "5"})
		}

		payload, err := manager.Advance(input.SessionID, steps)
		if err != nil {
			return nil, SessionResult{}, fmt.Errorf("session advance failed: %w", err)
		}
		return nil, sessionResultFrom(payload), nil
	}
}

// SessionListInput represents the MCP tool input for listing sessions.
// Listing takes no arguments.
type SessionListInput struct{}

// SessionListResult represents the MCP tool output for listing sessions.
type SessionListResult struct {
	SessionIDs []string `json:"session_ids" jsonschema:"identifiers of sessions still held in memory, sorted"`
}

// SessionListTool defines the MCP tool schema for listing sessions.
func SessionListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_list",
		Description: "Lists the identifiers of sessions still held in memory.",
	}
}

// SessionListHandler executes a session list request.
func SessionListHandler(manager SessionService) mcp.ToolHandlerFor[SessionListInput, SessionListResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ SessionListInput) (*mcp.CallToolResult, SessionListResult, error) {
		if manager == nil {
			return nil, SessionListResult{}, fmt.Errorf("session manager is not configured")
		}
		return nil, SessionListResult{SessionIDs: manager.ActiveIDs()}, nil
	}
}

// SessionResourceTemplate defines the MCP resource template for session payloads.
func SessionResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "session",
		Title:       "Session",
		Description: "Readable session payload at its current cursor. URI format: session://{session_id}",
		MIMEType:    "application/json",
		URITemplate: "session://{session_id}",
	}
}

// SessionResourceHandler returns a readable session payload resource.
func SessionResourceHandler(manager SessionService) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if manager == nil {
			return nil, fmt.Errorf("session manager is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("session ID is required; use URI format session://{session_id}")
		}
		uri := req.Params.URI

		sessionID, err := parseSessionIDFromResourceURI(uri)
		if err != nil {
			return nil, fmt.Errorf("parse session ID from URI: %w", err)
		}

		payload, err := manager.Get(sessionID)
		if err != nil {
			return nil, fmt.Errorf("session read failed: %w", err)
		}

		data, err := json.MarshalIndent(sessionResultFrom(payload), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal session payload: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

// SessionListResource defines the MCP resource for the active session listing.
func SessionListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "session_list",
		Title:       "Active Sessions",
		Description: "Readable listing of active session identifiers",
		MIMEType:    "application/json",
		URI:         "session://",
	}
}

// SessionListResourceHandler returns a readable session listing resource.
func SessionListResourceHandler(manager SessionService) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if manager == nil {
			return nil, fmt.Errorf("session manager is not configured")
		}

		uri := "session://"
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		data, err := json.MarshalIndent(SessionListResult{SessionIDs: manager.ActiveIDs()}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal session listing: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

// parseSessionIDFromResourceURI extracts the session ID from a URI of the
// form session://{session_id}. It requires an actual session ID.
func parseSessionIDFromResourceURI(uri string) (string, error) {
	prefix := "session://"

	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("URI must start with %q", prefix)
	}

	sessionID := strings.TrimSpace(strings.TrimPrefix(uri, prefix))
	if sessionID == "" {
		return "", fmt.Errorf("session ID is required in URI")
	}

	return sessionID, nil
}
