// Package prompt builds the deterministic instruction prompts sent to the
// generative model. Keeping them in one place makes the output contracts the
// parsers rely on reviewable next to each other.
package prompt

import (
	"fmt"
	"strings"
)

// Tutor wraps a student question in the chat-tutor instruction.
func Tutor(message string) string {
	return fmt.Sprintf(`You are an expert AI tutor for the Eduverse platform.
Help students learn and understand various subjects in a friendly and engaging way.

Student question: %s

Please provide a helpful and educational response.`, message)
}

// Quiz instructs the model to return only a JSON array of exactly 4
// four-option questions. The parser in internal/parser depends on this
// contract.
func Quiz(topic string) string {
	return fmt.Sprintf(`Generate a quiz with exactly 4 multiple choice questions about %s.
Format your response as a JSON array like this example:
[
  {
    "question": "What is the capital of France?",
    "answers": ["London", "Paris", "Berlin", "Madrid"],
    "correctAnswer": 1
  }
]
Important:
1. Return exactly 4 questions
2. Each question must have exactly 4 answer options
3. correctAnswer must be 0, 1, 2, or 3 (index of correct answer)
4. Questions should be challenging but fair
5. Return ONLY the JSON array
6. Ensure valid JSON format`, topic)
}

// Lesson instructs the model to answer in the line-oriented dialect the
// lesson parser understands: Summary:, Key Points: with "-" bullets,
// Review Questions: with "?" bullets.
func Lesson(lessonContent string) string {
	return fmt.Sprintf(`You are an expert educational content analyzer. I need you to analyze the following lesson content and provide a structured response in exactly this format:

Summary:
[Write a 2-3 sentence summary here, focusing on the main concepts and their importance]

Key Points:
- [First key point here]
- [Second key point here]
- [Third key point here]
- [Fourth key point here]
- [Fifth key point here]

Review Questions:
? [First review question here]
? [Second review question here]
? [Third review question here]

Important formatting rules:
1. Keep exactly this structure with empty lines between sections
2. Start each key point with "- "
3. Start each question with "? "
4. Provide exactly 5 key points
5. Provide exactly 3 review questions
6. Make sure the summary is clear and concise

Lesson Content to analyze:
%s

Remember to maintain the exact formatting as shown above.`, strings.TrimSpace(lessonContent))
}

// FileSummary asks for a conversational summary of extracted file text. The
// text is truncated to charLimit to bound latency and token cost.
func FileSummary(text string, charLimit int) string {
	if charLimit > 0 {
		if runes := []rune(text); len(runes) > charLimit {
			text = string(runes[:charLimit])
		}
	}
	return fmt.Sprintf(`Create a brief, engaging summary of the following text. Make it conversational and easy to understand:

%s`, text)
}
