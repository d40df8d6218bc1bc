package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/llm"
)

const (
	readyMarker = "<ready_for_quote>"

	// FallbackReply is shown when the model answered with nothing but the
	// structured block.
	FallbackReply = "Thanks, I have everything I need. You can now request your quote."
)

var diagnosticBlock = regexp.MustCompile(`(?s)<diagnostic>(.*?)</diagnostic>`)

// BasePrompt is appended to every company prompt. It tells the model how to
// interview the customer and how to emit the diagnostic block.
const BasePrompt = `IMPORTANT: FOLLOW THESE RULES EXACTLY.

YOUR JOB:
- Ask a few short, focused questions (1 to 4) to understand the customer's situation: brand, model, issue and basic context.
- For devices: confirm brand, model, what happens, when it happens and, if needed, one clarifying detail (type or location of a noise, an error message).
- For services (cleaning, moving, etc.): confirm what service they need and 1 to 3 key details (size, type of job, location).
- Do NOT ask long lists of questions and do NOT repeat yourself.
- As soon as you have enough information for a technician to prepare a quote, STOP asking questions.

THEN YOU MUST:
1) Send a short, natural summary message to the user.
2) Immediately after, output a diagnostic JSON block in this exact structure, wrapped in <diagnostic> ... </diagnostic>.
3) On the next line, output: <ready_for_quote>

FIELD RULES:
- If the user mentions a brand or model, ALWAYS fill deviceBrand and deviceModel (fix obvious typos if needed).
- Infer deviceType from context:
  - Printers: "laser_printer" or "inkjet_printer"
  - Computers and laptops: "computer" or "laptop"
  - Appliances: "appliance"
  - Otherwise: "other"
- Infer serviceType from intent:
  - Printer issues: "printer_repair"
  - IT or computer issues: "it_support"
  - Appliance issues: "appliance_repair"
  - Cleaning requests: "cleaning"
  - Moving or transport: "moving"
  - Otherwise: "other"
- problemDescription: clear human description of what is wrong and when it happens.
- location: fill if a city, postal code or address is mentioned, otherwise null.
- urgency: fill if the user says things like "urgent", "asap", "today", otherwise null.
- extraData: any useful structured details (error codes, type of cleaning, number of rooms) or {} if nothing special.
- If a field is unknown, set it to null.
- Do NOT invent details.
- NEVER wrap JSON in markdown.
- JSON must be valid.

<diagnostic>
{
  "serviceType": "printer_repair" | "it_support" | "appliance_repair" | "cleaning" | "moving" | "other",
  "deviceType": "laser_printer" | "inkjet_printer" | "computer" | "laptop" | "appliance" | "other",
  "deviceBrand": null,
  "deviceModel": null,
  "problemDescription": null,
  "location": null,
  "urgency": null,
  "extraData": {}
}
</diagnostic>
<ready_for_quote>`

// Completer is the text-completion capability the extractor depends on.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []llm.Message) (string, error)
}

// Extraction is the result of one assistant turn.
type Extraction struct {
	// Raw is the unmodified completion text.
	Raw string
	// Reply is the text shown to the customer.
	Reply string
	// Diagnostic is nil when no block was present or it failed to parse.
	Diagnostic    *Diagnostic
	ReadyForQuote bool
	// ParseErr is set when a block was present but malformed.
	ParseErr error
}

// Extractor asks the completion service for the next assistant turn.
type Extractor struct {
	completer Completer
}

func NewExtractor(completer Completer) *Extractor {
	return &Extractor{completer: completer}
}

// SystemPrompt joins a company override with the base instructions.
func SystemPrompt(companyPrompt string) string {
	companyPrompt = strings.TrimSpace(companyPrompt)
	if companyPrompt == "" {
		return BasePrompt
	}
	return companyPrompt + "\n\n" + BasePrompt
}

// Extract runs one completion. Only a completion failure is returned as an
// error; a malformed diagnostic is reported through Extraction.ParseErr.
func (e *Extractor) Extract(ctx context.Context, companyPrompt string, history []llm.Message) (*Extraction, error) {
	text, err := e.completer.Complete(ctx, SystemPrompt(companyPrompt), history)
	if err != nil {
		return nil, err
	}
	return ParseCompletion(text), nil
}

// ParseCompletion splits a completion into the visible reply and the
// optional diagnostic document.
func ParseCompletion(text string) *Extraction {
	out := &Extraction{
		Raw:           text,
		ReadyForQuote: strings.Contains(text, readyMarker),
	}

	if m := diagnosticBlock.FindStringSubmatch(text); m != nil {
		d, err := ParseDiagnostic([]byte(m[1]))
		if err != nil {
			out.ParseErr = err
		} else {
			out.Diagnostic = d
		}
	}

	reply := diagnosticBlock.ReplaceAllString(text, "")
	reply = strings.ReplaceAll(reply, readyMarker, "")
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = FallbackReply
	}
	out.Reply = reply

	return out
}
