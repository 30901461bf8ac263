package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kết quả chấm một câu trả lời phỏng vấn
type AnswerEvaluation struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

type generatedQuestions struct {
	Questions []string `json:"questions"`
}

// GenerateInterviewQuestions sinh bộ câu hỏi phỏng vấn theo vị trí,
// chủ đề và độ khó. resumeText có thể rỗng nếu user không upload CV.
func GenerateInterviewQuestions(role, topic, difficulty string, numQuestions int, resumeText string) ([]string, error) {
	if numQuestions <= 0 {
		numQuestions = 5
	}

	prompt := fmt.Sprintf(`Bạn là người phỏng vấn kỹ thuật giàu kinh nghiệm.
	Hãy soạn đúng %d câu hỏi phỏng vấn cho vị trí "%s", chủ đề "%s", độ khó "%s".
	Yêu cầu:
	1. Trả về DUY NHẤT một JSON object dạng {"questions": ["câu 1", "câu 2"]}, không giải thích.
	2. Câu hỏi mở, kiểm tra hiểu bản chất chứ không học thuộc.
	3. Câu hỏi tiếng Việt, thuật ngữ kỹ thuật giữ tiếng Anh.`, numQuestions, role, topic, difficulty)

	if resumeText != "" {
		prompt += "\n\tCV của ứng viên (ưu tiên hỏi sâu vào kinh nghiệm thực tế trong CV):\n" + resumeText
	}

	raw, err := GeminiGenerateText(prompt)
	if err != nil {
		return nil, err
	}

	var parsed generatedQuestions
	if err := json.Unmarshal([]byte(extractJSONBlock(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("không parse được danh sách câu hỏi: %v", err)
	}
	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("gemini không trả câu hỏi nào")
	}
	return parsed.Questions, nil
}

// EvaluateAnswer chấm điểm một câu trả lời, thang 0-10
func EvaluateAnswer(question, answer string) (*AnswerEvaluation, error) {
	prompt := fmt.Sprintf(`Bạn là người phỏng vấn kỹ thuật, hãy chấm câu trả lời sau.
	Câu hỏi: %s
	Câu trả lời của ứng viên: %s
	Yêu cầu:
	1. Trả về DUY NHẤT một JSON object: {"score": <số 0-10, cho phép lẻ 0.5>, "feedback": "nhận xét ngắn gọn"}
	2. Feedback chỉ ra điểm đúng, điểm thiếu và cách trả lời tốt hơn.
	3. Feedback tiếng Việt, thuật ngữ kỹ thuật giữ tiếng Anh.`, question, answer)

	raw, err := GeminiGenerateText(prompt)
	if err != nil {
		return nil, err
	}

	var eval AnswerEvaluation
	if err := json.Unmarshal([]byte(extractJSONBlock(raw)), &eval); err != nil {
		return nil, fmt.Errorf("không parse được kết quả chấm điểm: %v", err)
	}
	if eval.Score < 0 {
		eval.Score = 0
	}
	if eval.Score > 10 {
		eval.Score = 10
	}
	eval.Feedback = strings.TrimSpace(eval.Feedback)
	return &eval, nil
}

// GenerateOverallFeedback tổng kết buổi phỏng vấn từ các nhận xét từng câu
func GenerateOverallFeedback(role string, avgScore float64, perQuestionFeedback []string) (string, error) {
	prompt := fmt.Sprintf(`Bạn là người phỏng vấn kỹ thuật cho vị trí "%s".
	Điểm trung bình của ứng viên: %.2f/10.
	Nhận xét từng câu:
	%s
	Hãy viết nhận xét tổng kết 3-5 câu: điểm mạnh, điểm yếu và lời khuyên ôn tập.
	Trả về văn bản thuần, tiếng Việt, không markdown.`, role, avgScore, strings.Join(perQuestionFeedback, "\n"))

	feedback, err := GeminiGenerateText(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(feedback), nil
}
