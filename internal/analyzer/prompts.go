package analyzer

// Prompts ask the model for a bare JSON array so the extractor's fenced and
// balanced-span paths are both fallbacks, not the happy path.

const fieldSchemaInstructions = `Return ONLY a JSON array of field objects, no commentary. Each object:
{
  "label": "Field label text",
  "type": "text|email|tel|textarea|select|radio|checkbox|date|checkbox-group|radio-with-other|checkbox-with-other",
  "required": true or false,
  "placeholder": "placeholder text if visible",
  "options": ["Option 1", "Option 2"],
  "confidence": 0.0 to 1.0
}
Only include "options" for select, radio, checkbox-group, and -with-other types.
Use the -with-other variants when the field shows a fixed option set plus a free-text "Other" entry.`

const screenshotPrompt = `Analyze this screenshot of a form and extract every input field you can see.

Look for text inputs, email fields, phone fields, text areas, dropdowns, radio groups, checkboxes, and date pickers. A red asterisk or the word "required" marks a required field.

` + fieldSchemaInstructions

const urlPrompt = `This is a full-page screenshot of a live web form. Extract every form field.

Watch for visual cues of live forms: dropdown arrows indicate select fields, red asterisks mark required fields, grouped circles are radio groups, grouped squares are checkbox groups, and grayed text inside inputs is the placeholder.

` + fieldSchemaInstructions

const pdfImagePrompt = `These images are pages of a PDF form, in the order listed below. Extract every fillable field from every page.

For each field, set "pageNumber" to the page number given for the image it appears on.

` + fieldSchemaInstructions

const pdfTextPromptPrefix = `The following text was extracted from a PDF form. Identify the form fields it describes.

` + fieldSchemaInstructions + `

Extracted text:
`

const pdfStructurePromptPrefix = `Text extraction from this PDF yielded too little to work with. Below is a raw prefix of the document's internal structure. Infer what form fields the document likely contains.

` + fieldSchemaInstructions + `

Document structure:
`

const textDescriptionPrompt = `Design the form fields for the form described below. Choose sensible types, mark fields required when the description implies it, and invent reasonable options for choice fields.

` + fieldSchemaInstructions + `

Description:
`
