package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/mklein/waterfall"
	"github.com/mklein/waterfall/docs"
	"github.com/mklein/waterfall/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is a real-estate deal principal or analyst. He is here to understand how a deal's
			cash distributes between the partners: who gets what, at which tier, and why.

			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.

			The user will assume that you already read his deal file and know its partners and flows.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns the expert in waterfall mechanics. It has no tools,
// only the library documentation as grounding.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert in equity waterfall mechanics.
		He knows how preferred returns accrue, how IRR hurdles bound promote tiers,
		and how fees interact with distributable cash.
		Ask the Analyst whenever you need the theory behind a figure.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in private-equity real-estate waterfall structures.
			Explain preferred return accrual, promote tiers, catch-up and carried interest
			in plain terms, grounded in the documentation below.

			` + must(docs.GetTopic("waterfall")) + `

			` + must(docs.GetTopic("fees")) + `
				`}}},
		},
	}
}

// NewBookkeeper returns the expert in charge of the user's deal file.
// All its tools read and analyze the deal at the given path.
func NewBookkeeper(dealFile string) *Expert {

	lib := []Function{
		distributionReport(dealFile),
		feeLedger(dealFile),
		dealSummary(dealFile),
	}

	return &Expert{
		Name: "Bookkeeper",
		Description: `This is the Bookkeeper. He is in charge of reading the user's deal file.
		He can run the full distribution analysis and report partner returns, tier breakdowns,
		fee ledgers and deal-level figures.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a bookkeeper in charge of the user's deal file.
				You know how to use the Tools to extract relevant figures about the deal.
				You are part of a team of experts, yours is everything recorded in the deal file.
				They might ask you questions in approximative language, figure out what they meant.

				Use the available tools to get information about the deal:
				  - the full distribution report with tier breakdown
				  - the fee ledger
				  - the deal summary
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func distributionReport(dealFile string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "DistributionReport",
			Description: `DistributionReport runs the deal's full waterfall analysis and renders
			the per-partner results: invested capital, distributions received, IRR, equity multiple,
			and the tier-by-tier breakdown of every dollar distributed.`,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted distribution report for the deal.",
			},
		},
		Func: report(dealFile, "DistributionReport", func(r *waterfall.DealResult) string {
			return renderer.DistributionMarkdown(r)
		}),
	}
}

func feeLedger(dealFile string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "FeeLedger",
			Description: `FeeLedger reports every fee charged against the deal: amount scheduled,
			amount paid, payee, category, and any unpaid balance at the end of the timeline.`,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted fee ledger for the deal.",
			},
		},
		Func: report(dealFile, "FeeLedger", func(r *waterfall.DealResult) string {
			return renderer.FeeLedgerMarkdown(r)
		}),
	}
}

func dealSummary(dealFile string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "DealSummary",
			Description: `DealSummary reports the deal-level figures: total contributions and
			distributions, net profit, deal IRR, equity multiple and archetype.`,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted summary of the deal.",
			},
		},
		Func: report(dealFile, "DealSummary", func(r *waterfall.DealResult) string {
			return renderer.SummaryMarkdown(r)
		}),
	}
}

// report wraps the analyze-then-render pattern shared by all bookkeeper tools.
func report(dealFile, name string, render func(*waterfall.DealResult) string) func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		result, err := analyze(dealFile)
		if err != nil {
			return &genai.FunctionResponse{
				ID:   id,
				Name: name,
				Response: map[string]any{
					"error": err.Error(),
				},
			}
		}
		return &genai.FunctionResponse{
			ID:   id,
			Name: name,
			Response: map[string]any{
				"output": render(result),
			},
		}
	}
}

// analyze loads the deal file and runs the full distribution analysis.
func analyze(dealFile string) (*waterfall.DealResult, error) {
	f, err := os.Open(dealFile)
	if err != nil {
		return nil, fmt.Errorf("could not open deal file %q: %w", dealFile, err)
	}
	defer f.Close()

	deal, err := waterfall.DecodeDeal(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode deal file %q: %w", dealFile, err)
	}
	return deal.Analyze()
}
