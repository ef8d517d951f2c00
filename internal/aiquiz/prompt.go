package aiquiz

import (
	"bytes"
	"text/template"
)

const quizShape = `Respond with JSON only, no prose, in this shape:
{
  "quiz": [
    {
      "question": "Question 1",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": "Option A"
    }
  ],
  "scoringSystemContext": null
}`

var topicQuizTmpl = template.Must(template.New("topic_quiz").Parse(`You are a quiz generator. Generate a quiz with {{.NumQuestions}} questions on the topic of {{.Topic}}.
Each question has exactly 4 options and one correct answer.
Make sure that the options are relevant to the question asked, and that "correctAnswer" is copied verbatim from the options.
` + quizShape))

var releasedTestTmpl = template.Must(template.New("released_test_quiz").Parse(`You are an expert curriculum developer and test designer. Find and adapt questions from publicly available, authentic, released educational tests or past papers.

County/Region: {{.Region}}
Educational Unit/Subject: {{.Unit}}
Desired number of questions: {{.NumQuestions}}

Rules:
1. Use only questions sourced from released tests, official sample questions or past papers for this region and subject. Do not invent questions.
2. Select approximately {{.NumQuestions}} questions. If fewer authentic questions exist, return what you found and say so in "scoringSystemContext" (e.g. "Found only X questions from authentic released tests for the specified criteria.").
3. Every question is multiple choice with 4 distinct options. Skip questions that cannot be expressed that way.
4. When a visual is integral to a question, give a public direct link in "imageUrl", or a short description in "imageDescription" when no link exists.
5. If the source test has a known scoring system (e.g. scaled scores 200-800, proficiency levels 1-5), describe it briefly in "scoringSystemContext".
6. A broader related region or a very similar subject is acceptable when the exact one has no released material, but only from authentic released tests.
7. If nothing relevant exists, return an empty "quiz" array and set "scoringSystemContext" to "` + NoReleasedTestsMessage + `"

Questions may also carry "imageUrl" and "imageDescription" (string or null).
` + quizShape))

var hintTmpl = template.Must(template.New("hint").Parse(`You are a helpful quiz assistant. The user is stuck on the following multiple-choice question.
Provide a concise hint, 1-2 sentences, that helps them think about the correct answer without giving the answer away.

Question: {{.Question}}
Options:
{{range .Options}}- {{.}}
{{end}}
Respond with JSON only: {"hint": "..."}`))

var explainTmpl = template.Must(template.New("explain").Parse(`You are an AI tutor. A student has answered a quiz question incorrectly.

Question: {{.Question}}
Student's Answer: {{.Answer}}
Correct Answer: {{.CorrectAnswer}}
{{if .UserReasoning}}
The student provided the following reasoning for their answer:
"{{.UserReasoning}}"

Analyze the reasoning, explain why the chosen answer is incorrect addressing any misconception in it, then explain why the correct answer is right.
{{else}}
The student did not provide specific reasoning.

Explain why the student's answer is incorrect, then explain why the correct answer is right.
{{end}}
Keep the tone helpful, encouraging and easy to understand.
Respond with JSON only: {"explanation": "..."}`))

var chatTmpl = template.Must(template.New("study_chat").Parse(`You are a friendly and knowledgeable AI Study Tutor.
The user wants to study the topic: {{.Topic}}.
{{if .ChatHistory}}
Conversation so far:
{{range .ChatHistory}}{{if eq .Role "model"}}Tutor{{else}}Student{{end}}: {{.Content}}
{{end}}{{end}}
The student has just sent: "{{.Message}}"

Answer questions clearly and concisely. If the student seems unsure, ask a follow-up question on the topic or offer an example.
Stay on the study topic and keep an encouraging tone.
Respond with JSON only: {"aiResponseMessage": "..."}`))

var solveTmpl = template.Must(template.New("solve").Parse(`You are an expert problem solver and explainer.
The user has provided the following question:
---
{{.QuestionText}}
---
Give a clear step-by-step solution in "solution", breaking complex problems into smaller parts.
Put any broader explanation of the underlying concepts in "explanation".
If the question is ambiguous or needs information you do not have, say so in "solution" and suggest how to rephrase it.
Respond with JSON only: {"solution": "...", "explanation": "..."}`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
