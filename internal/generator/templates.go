package generator

// DocumentStyle groups document stem templates by the kind of question asked.
type DocumentStyle string

const (
	DocumentGeneral    DocumentStyle = "general"
	DocumentFactual    DocumentStyle = "factual"
	DocumentAnalytical DocumentStyle = "analytical"
	DocumentComparison DocumentStyle = "comparison"
)

// SyllabusStyle groups computer-awareness stem templates.
type SyllabusStyle string

const (
	SyllabusGeneral    SyllabusStyle = "general"
	SyllabusDefinition SyllabusStyle = "definition"
	SyllabusComparison SyllabusStyle = "comparison"
	SyllabusFunction   SyllabusStyle = "function"
	SyllabusCoding     SyllabusStyle = "coding"
)

var documentStyleOrder = []DocumentStyle{DocumentGeneral, DocumentFactual, DocumentAnalytical, DocumentComparison}

// TemplateBank is read-only after construction and shared by every call.
type TemplateBank struct {
	Document map[DocumentStyle][]string
	Syllabus map[SyllabusStyle][]string

	allDocument []string
}

// NewTemplateBank builds a bank from the given tables.
func NewTemplateBank(document map[DocumentStyle][]string, syllabus map[SyllabusStyle][]string) *TemplateBank {
	b := &TemplateBank{Document: document, Syllabus: syllabus}
	for _, style := range documentStyleOrder {
		b.allDocument = append(b.allDocument, document[style]...)
	}
	return b
}

// AllDocumentTemplates returns every document template across styles.
func (b *TemplateBank) AllDocumentTemplates() []string {
	return b.allDocument
}

// DefaultTemplateBank returns the built-in template tables.
func DefaultTemplateBank() *TemplateBank {
	return NewTemplateBank(defaultDocumentTemplates(), defaultSyllabusTemplates())
}

func defaultDocumentTemplates() map[DocumentStyle][]string {
	return map[DocumentStyle][]string{
		DocumentGeneral: {
			"What is described as {phrase}?",
			"What does {subject} refer to in the text?",
			"Which {category} is mentioned in relation to {subject}?",
			"What is the main concept described in '{sentence_start}...'?",
			"What is the relationship between {subject} and {related}?",
			"What is the significance of {subject}?",
			"How does the text describe {subject}?",
			"What example is given for {concept}?",
			"What characteristic is attributed to {subject}?",
			"According to the text, what is {subject}?",
			"What process involves {element}?",
			"What is a key feature of {subject}?",
			"Which statement about {subject} is true according to the text?",
		},
		DocumentFactual: {
			"Which fact about {subject} is mentioned in the text?",
			"What detail is provided about {subject} in this section?",
			"What specific information does the text provide about {subject}?",
			"What is stated about {subject} in this part of the document?",
			"Which piece of data regarding {subject} appears in the text?",
			"What specific metric or number is associated with {subject}?",
			"Which statistic related to {subject} is mentioned?",
			"What quantitative information is given about {subject}?",
		},
		DocumentAnalytical: {
			"What conclusion can be drawn about {subject} based on this section?",
			"What inference is supported by the information about {subject}?",
			"How would you interpret the information about {subject}?",
			"What does the text suggest about the importance of {subject}?",
			"What analysis is provided regarding {subject}?",
			"What would be a reasonable interpretation of the section about {subject}?",
			"What perspective does the text offer on {subject}?",
			"How might one evaluate the information presented about {subject}?",
		},
		DocumentComparison: {
			"How does {subject} compare to {related}?",
			"What distinction is made between {subject} and {related}?",
			"What similarity exists between {subject} and {related}?",
			"In what way does {subject} differ from {related}?",
			"How are {subject} and {related} connected according to the text?",
			"What relationship is established between {subject} and {related}?",
			"How do the characteristics of {subject} contrast with those of {related}?",
			"What comparative analysis is offered between {subject} and {related}?",
		},
	}
}

func defaultSyllabusTemplates() map[SyllabusStyle][]string {
	return map[SyllabusStyle][]string{
		SyllabusGeneral: {
			"Which of the following is true about {concept}?",
			"In {context}, what role does {concept} play?",
			"Which statement best describes {concept} in {system}?",
			"What is the primary characteristic of {concept}?",
			"Which of the following is most closely associated with {concept}?",
		},
		SyllabusDefinition: {
			"What is {concept}?",
			"Which of the following best defines {concept}?",
			"What does the acronym {acronym} stand for?",
			"In {context}, the term {concept} refers to:",
		},
		SyllabusComparison: {
			"What is the main difference between {concept1} and {concept2}?",
			"How does {concept1} differ from {concept2} in {context}?",
			"Which of the following correctly compares {concept1} and {concept2}?",
		},
		SyllabusFunction: {
			"What is the main function of {concept}?",
			"What is the purpose of {concept} in {system}?",
			"Which task is performed by {concept}?",
			"Why is {concept} used in {context}?",
		},
		SyllabusCoding: {
			"What will be the output of the following C code?\n{code}",
			"How do you {task} in C?",
			"What does the following C code do?\n{code}",
			"Find the error in the following C code, starting from the line `{line}`:\n{code}",
			"Which header file must be included to use the {library_function} function?",
		},
	}
}

// categoryNouns fill the {category} slot of document templates.
var categoryNouns = []string{"concept", "term", "idea", "principle", "factor", "method", "approach", "theory"}
