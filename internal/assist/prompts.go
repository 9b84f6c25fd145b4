package assist

const suggestSystemPrompt = `You are a healthcare accreditation consultant.
Given one checklist item of an accreditation survey and the standard it
belongs to, write a short corrective action plan that would bring the item
into compliance.

Rules:
- Plain text, no markdown headings.
- At most five numbered steps, each one sentence.
- Name the responsible role (not a person) and a realistic timeframe.
- Do not restate the standard.`

// translateSystemPrompt takes the target language name.
const translateSystemPrompt = `Translate the user's text into %s.
Output only the translation. Keep standard codes such as IPSG.1 and proper
names unchanged.`

const summarizeSystemPrompt = `You summarize the readiness of a hospital for an
accreditation survey. The input is JSON with the project name, its status,
a breakdown of checklist statuses and the items that are not yet compliant.

Output ONLY a JSON object with these fields:
- headline: one sentence on overall readiness
- strengths: array of short strings
- gaps: array of short strings naming item ids where relevant
- nextSteps: array of at most three short strings

Never invent item ids that are not in the input.`
