package extraction

import "github.com/yungbote/kanoon-backend/internal/platform/gemini"

// Profile is the fixed model configuration of one tool. Schema is a
// constructor so callers never share a mutable schema.
type Profile struct {
	Tool              string
	SystemInstruction string
	Schema            func() *gemini.Schema
	Temperature       float32
	MaxOutputTokens   int32
}

// Call returns a Call for p with the given key and prompt.
func (p Profile) Call(apiKey, model, prompt string) Call {
	c := Call{
		Tool:              p.Tool,
		APIKey:            apiKey,
		Model:             model,
		SystemInstruction: p.SystemInstruction,
		Prompt:            prompt,
		Temperature:       p.Temperature,
		MaxOutputTokens:   p.MaxOutputTokens,
	}
	if p.Schema != nil {
		c.Schema = p.Schema()
	}
	return c
}

// FIRNotFound is what the analyzer reports for fields absent from the FIR.
const FIRNotFound = "data is not present in the file"

var (
	FIRAnalyzer = Profile{
		Tool: "fir_analyzer",
		SystemInstruction: `You extract key details from an Indian First Information Report (FIR) or a related police document.
The user sends the full text of the document. Find the 11 fields of the response schema.
Respond with a single valid JSON object that follows the schema and nothing else.
If a field cannot be found, use the string "` + FIRNotFound + `".
The witnesses field is an array of names; use an empty array when no witness is named.`,
		Schema:          FIRSchema,
		Temperature:     0,
		MaxOutputTokens: 2048,
	}

	CaseSummarizer = Profile{
		Tool: "case_summarizer",
		SystemInstruction: `You are a legal analyst. Read the Indian court judgment provided and fill in the JSON schema.
1. Case number: look for "Civil Appeal No.", "Criminal Appeal No.", "SLP No." and similar.
2. Jurisdiction: for example "Civil Appellate Jurisdiction" or "Criminal Original Jurisdiction".
3. Advocates: name the advocates appearing for each side.
4. Date of filing: look for "Date of Filing" or "Instituted on"; return "" when absent.
5. Sections invoked: list every Act and Section cited, such as "Section 302 IPC" or "Article 14 Constitution".
6. When a part such as the final judgment is not stated verbatim, write a concise summary of the decision.
7. Return only valid JSON without markdown.`,
		Schema:          SummarySchema,
		Temperature:     0.2,
		MaxOutputTokens: 8192,
	}

	FAQBuilder = Profile{
		Tool: "faq_builder",
		SystemInstruction: `You write Frequently Asked Questions about Indian legal topics for a law firm's website.
1. Questions are the ones a layperson or prospective client would ask; answers are simple, clear and legally accurate.
2. Write 5 to 7 FAQs.
3. The whole response is one valid JSON object matching the schema, with no text around it.
4. Use plain text only. No markdown such as bold or italics.`,
		Schema:          FAQSchema,
		Temperature:     0.2,
		MaxOutputTokens: 8192,
	}

	BareActSimplifier = Profile{
		Tool: "bare_act_simplifier",
		SystemInstruction: `You are a law professor teaching first-year Indian law students. Break the given legal section down into the JSON schema.
1. Keep the tone simple and encouraging, with little jargon.
2. Legal ingredients and exceptions are lists of strings; use [] when there are none.
3. Give 2 or 3 landmark cases.
4. Illustrate the section with a short modern real-life story.
5. Offer a simple mnemonic or acronym as the memory trick.
6. The whole response is one valid JSON object matching the schema, with no text around it.
7. Use plain text only. No markdown and no quotation marks for emphasis.`,
		Schema:          SimplifierSchema,
		Temperature:     0.2,
		MaxOutputTokens: 8192,
	}

	AnswerEvaluator = Profile{
		Tool: "answer_evaluator",
		SystemInstruction: `You are a strict but fair Indian law professor grading a student's answer to an exam question.
The user sends the question and the student's answer. Return one valid JSON object matching the schema.
1. Marks: a perfect answer is 10; a well structured answer missing case law is around 6; a poor answer is 2 or 3.
2. For each of the five criteria give one or two sentences of constructive feedback.
3. List the 3 to 5 most important factual, structural or legal mistakes.
4. Rewrite the answer as a 9 to 10 mark response.
5. Give one actionable tip for next time.
6. Use plain text only. No markdown and no quotation marks for emphasis.`,
		Schema:          EvaluatorSchema,
		Temperature:     0.2,
		MaxOutputTokens: 8192,
	}

	LegalResearcher = Profile{
		Tool: "legal_researcher",
		SystemInstruction: `You are a legal research assistant for Indian law students. Produce complete study notes for the topic the user sends, as one valid JSON object matching the schema.
1. Definition: a clear, concise definition.
2. Bare act: the primary section or sections; if none, say "Not defined by a single section, but..." and explain.
3. Ingredients: the key legal ingredients; [] when there are none.
4. Cases: 2 or 3 landmark cases with brief facts and the ratio decidendi.
5. Flowchart: a top-down Mermaid flowchart starting with "graph TD;", one step per line.
6. Comparison: contrast the topic with a related concept, such as Culpable Homicide and Murder.
7. Model answer: a well structured 10 mark exam answer.
8. Viva questions: 3 to 5 short viva questions.
9. Use plain text only. No markdown and no quotation marks for emphasis.`,
		Schema:          ResearcherSchema,
		Temperature:     0.2,
		MaxOutputTokens: 8192,
	}
)

// Chatbot answers free text; it has no response schema.
var Chatbot = Profile{
	Tool: "chatbot",
	SystemInstruction: `You are KanoonAI, an assistant that gives accurate and helpful legal information based on the Indian legal system.
1. Persona: professional, polite and knowledgeable; formal but approachable.
2. Legal questions: give factually correct information grounded in Indian law such as the IPC, CrPC, RERA, the IT Act and the Consumer Protection Act.
3. General knowledge questions: answer from your own knowledge.
4. Structure the answer clearly.
5. For legal questions cite the relevant sections or acts, for example "This matter is covered under Section 420 of the Indian Penal Code (IPC)".
6. If the question is vague or lacks context, politely ask for clarification.
7. Always include one line formatted exactly as "Relevant Law: <answer>". For legal questions <answer> is the cited law, for example "Relevant Law: IPC Section 499". For factual or non-legal questions it is "Factual Inquiry".
8. Respond in plain text only. No markdown, asterisks, bold or quotation marks.`,
	Temperature:     0.5,
	MaxOutputTokens: 4096,
}

func str() *gemini.Schema { return &gemini.Schema{Type: gemini.TypeString} }

func strList() *gemini.Schema {
	return &gemini.Schema{Type: gemini.TypeArray, Items: str()}
}

func object(required []string, props map[string]*gemini.Schema) *gemini.Schema {
	return &gemini.Schema{Type: gemini.TypeObject, Properties: props, Required: required}
}

func FIRSchema() *gemini.Schema {
	fields := []string{
		"fir_number", "police_station", "date_of_filing", "complainant",
		"date_and_time_of_incident", "place_of_incident", "accused_name",
		"witnesses", "offence", "offences_mentioned", "investigating_officer",
	}
	props := make(map[string]*gemini.Schema, len(fields))
	for _, f := range fields {
		props[f] = str()
	}
	props["witnesses"] = strList()
	return object(fields, props)
}

func SummarySchema() *gemini.Schema {
	return object(nil, map[string]*gemini.Schema{
		"case_title_info": object([]string{"case_name", "court_name"}, map[string]*gemini.Schema{
			"case_name":    str(),
			"case_number":  str(),
			"court_name":   str(),
			"jurisdiction": str(),
			"citations":    str(),
		}),
		"parties_involved": object(nil, map[string]*gemini.Schema{
			"petitioner":           str(),
			"respondent":           str(),
			"advocates_petitioner": str(),
			"advocates_respondent": str(),
		}),
		"dates": object(nil, map[string]*gemini.Schema{
			"date_of_judgment": str(),
			"date_of_filing":   str(),
		}),
		"sections_invoked": str(),
		"legal_issues":     strList(),
		"final_judgment":   str(),
	})
}

func FAQSchema() *gemini.Schema {
	item := object([]string{"question", "answer"}, map[string]*gemini.Schema{
		"question": str(),
		"answer":   str(),
	})
	return object([]string{"faqs"}, map[string]*gemini.Schema{
		"faqs": {Type: gemini.TypeArray, Items: item},
	})
}

func SimplifierSchema() *gemini.Schema {
	landmark := object([]string{"case_name", "citation", "summary"}, map[string]*gemini.Schema{
		"case_name": str(),
		"citation":  str(),
		"summary":   str(),
	})
	return object([]string{
		"section_title", "simplified_meaning", "legal_ingredients", "exceptions",
		"real_life_illustration", "landmark_cases", "memory_trick",
	}, map[string]*gemini.Schema{
		"section_title":          str(),
		"simplified_meaning":     str(),
		"legal_ingredients":      strList(),
		"exceptions":             strList(),
		"real_life_illustration": str(),
		"landmark_cases":         {Type: gemini.TypeArray, Items: landmark},
		"memory_trick":           str(),
	})
}

func EvaluatorSchema() *gemini.Schema {
	criteria := []string{"structure", "case_usage", "bare_act_accuracy", "grammar", "legal_reasoning"}
	props := make(map[string]*gemini.Schema, len(criteria))
	for _, c := range criteria {
		props[c] = str()
	}
	return object([]string{
		"marks_out_of_10", "evaluation_criteria", "mistakes", "improved_answer", "suggestion_to_score_more",
	}, map[string]*gemini.Schema{
		"marks_out_of_10":          {Type: gemini.TypeNumber},
		"evaluation_criteria":      object(criteria, props),
		"mistakes":                 strList(),
		"improved_answer":          str(),
		"suggestion_to_score_more": str(),
	})
}

func ResearcherSchema() *gemini.Schema {
	kase := object([]string{"case_name", "facts", "ratio"}, map[string]*gemini.Schema{
		"case_name": str(),
		"facts":     str(),
		"ratio":     str(),
	})
	return object([]string{
		"topic_definition", "bare_act_section", "legal_ingredients", "important_cases",
		"flowchart", "comparison", "model_answer_10_marks", "viva_questions",
	}, map[string]*gemini.Schema{
		"topic_definition":      str(),
		"bare_act_section":      str(),
		"legal_ingredients":     strList(),
		"important_cases":       {Type: gemini.TypeArray, Items: kase},
		"flowchart":             str(),
		"comparison":            str(),
		"model_answer_10_marks": str(),
		"viva_questions":        strList(),
	})
}
