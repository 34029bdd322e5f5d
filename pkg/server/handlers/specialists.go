package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/server/middleware"
	"halo-hq/titan/pkg/session"
)

// Specialist is one domain-focused chat endpoint. Each one is a stateless
// chat call framed by its own system prompt; no conversation is persisted.
type Specialist struct {
	// Route is the endpoint path under the API prefix.
	Route string

	// Field is the response field carrying the generated text.
	Field string

	// Prompt is the system prompt framing the call.
	Prompt string
}

// Specialists is the full specialist endpoint set.
var Specialists = []Specialist{
	{
		Route: "/api/code",
		Field: "code",
		Prompt: "You are an expert software engineer and architect. Write " +
			"production-ready, well-structured code with proper error " +
			"handling, comprehensive documentation, and security best " +
			"practices. Cover performance, testing, and deployment " +
			"considerations, and break complex requests into manageable " +
			"components with an explained architecture.",
	},
	{
		Route: "/api/marketing",
		Field: "content",
		Prompt: "You are a master marketing strategist and creative " +
			"director. Develop comprehensive multi-channel campaigns with " +
			"compelling copy, strategic recommendations, measurable goals, " +
			"KPIs, budget and ROI projections, and implementation " +
			"timelines. Tailor everything to the business, industry, and " +
			"target audience.",
	},
	{
		Route: "/api/real-estate/analyze",
		Field: "analysis",
		Prompt: "You are an expert real estate analyst and market " +
			"strategist. Provide comprehensive market analysis with data, " +
			"comparable property analysis, financial projections and ROI " +
			"calculations, risk assessment, and actionable next steps with " +
			"a due diligence checklist. Be thorough, data-driven, and " +
			"conservative in your projections.",
	},
	{
		Route: "/api/business/strategy",
		Field: "strategy",
		Prompt: "You are a master business strategist and growth " +
			"consultant. Provide SWOT analysis, competitive landscape, " +
			"financial projections and unit economics, a go-to-market " +
			"strategy with timelines, an operational roadmap with KPIs, " +
			"and risk mitigation. Be strategic, realistic, and focused on " +
			"sustainable growth.",
	},
	{
		Route: "/api/personal/development",
		Field: "guidance",
		Prompt: "You are a wise mentor and personal development coach. " +
			"Give actionable, specific recommendations with realistic " +
			"timelines and milestones, resource recommendations, " +
			"accountability frameworks, and progress tracking. Be " +
			"supportive, challenging, and focused on long-term growth and " +
			"fulfillment.",
	},
	{
		Route: "/api/task/automation",
		Field: "automation_plan",
		Prompt: "You are an automation expert and productivity " +
			"consultant. Analyze the current process and its bottlenecks, " +
			"prioritize automation opportunities, recommend specific tools " +
			"and technologies, and lay out implementation steps, success " +
			"metrics, and maintenance strategies. Focus on practical, " +
			"implementable solutions with measurable productivity gains.",
	},
}

// SpecialistHandler builds the handler for one specialist endpoint. The call
// rides the session core's selection and escalation like any chat turn.
func (h *Handlers) SpecialistHandler(sp Specialist) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SpecialistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if req.Message == "" {
			badRequest(w, "message is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.backendTimeout)
		defer cancel()

		result, err := h.session.Oneshot(ctx, session.OneshotRequest{
			UserID:     middleware.UserIDFromContext(r.Context()),
			Capability: providers.CapabilityChat,
			Payload: providers.Payload{
				Messages: []providers.Message{
					{Role: providers.RoleSystem, Content: sp.Prompt},
					{Role: providers.RoleUser, Content: req.Message},
				},
			},
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			sp.Field:   result.Text,
			"provider": result.Provider,
		})
	}
}
