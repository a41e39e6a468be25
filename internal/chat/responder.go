package chat

import (
	"context"
	"strings"

	"github.com/bokjikok/bokjikok/internal/models"
)

// Reply is what a responder produces for one user message. Either field may
// be empty; both empty means the responder had no usable content.
type Reply struct {
	Text  string
	Items []models.BenefitItem
}

// Responder answers a single chat message. RemoteClient talks to the backend;
// LocalResponder is the scripted stand-in used when no remote is configured.
type Responder interface {
	Reply(ctx context.Context, message string, profile *models.Profile) (*Reply, error)
}

// rule maps keyword conditions to a canned answer. All entries must appear in
// the lowercased message; Any requires at least one. Rules are evaluated in
// order and the first match wins.
type rule struct {
	All    []string
	Any    []string
	Answer string
}

func (r rule) matches(message string) bool {
	for _, kw := range r.All {
		if !strings.Contains(message, kw) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return true
	}
	for _, kw := range r.Any {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

var responderRules = []rule{
	{
		All: []string{"청년", "지원"},
		Answer: "청년을 위한 다양한 지원 제도가 있어요! 주요 혜택으로는:\n\n" +
			"1. 청년 월세 한시 특별지원 (월 20만원)\n" +
			"2. 청년 구직활동 지원금\n" +
			"3. 청년 내일채움공제\n" +
			"4. 청년 전세자금 대출\n\n" +
			"더 자세한 정보가 필요하시면 개인정보를 입력해서 맞춤 추천을 받아보세요! 😊",
	},
	{
		Any: []string{"주거", "월세", "전세"},
		Answer: "주거 관련 복지 혜택을 찾고 계시는군요! 🏠\n\n주요 주거 지원 제도:\n" +
			"1. 청년 월세 한시 특별지원\n" +
			"2. 신혼부부 전세자금 대출\n" +
			"3. 주거급여 (임차급여)\n" +
			"4. 기존주택 전세임대\n\n" +
			"나이, 소득, 가족 상황에 따라 지원 조건이 다르니 개인정보를 입력하시면 더 정확한 추천을 받을 수 있어요!",
	},
	{
		Any: []string{"교육", "장학금", "학비"},
		Answer: "교육비 지원 제도에 관심이 있으시군요! 📚\n\n주요 교육 지원:\n" +
			"1. 국가장학금 Ⅰ·Ⅱ유형\n" +
			"2. 근로장학금\n" +
			"3. 우수학생 국가장학금\n" +
			"4. 다자녀 국가장학금\n\n" +
			"소득분위와 성적에 따라 지원 금액이 달라집니다. 자세한 신청 조건과 방법이 궁금하시면 말씀해 주세요!",
	},
	{
		Any: []string{"고용", "취업", "일자리"},
		Answer: "취업 및 고용 지원 제도를 안내해드릴게요! 💼\n\n주요 고용 지원:\n" +
			"1. 청년 구직활동 지원금\n" +
			"2. 국민취업지원제도\n" +
			"3. 청년 내일채움공제\n" +
			"4. 중소기업 청년 소득세 감면\n\n" +
			"구직 상황과 경력에 따라 다양한 지원을 받을 수 있어요. 구체적인 상황을 알려주시면 더 정확한 안내가 가능합니다!",
	},
	{
		Any: []string{"의료", "건강보험", "병원비"},
		Answer: "의료비 지원 제도를 찾고 계시는군요! 🏥\n\n주요 의료 지원:\n" +
			"1. 의료급여 (기초생활보장)\n" +
			"2. 재난적 의료비 지원\n" +
			"3. 청년 건강보험료 지원\n" +
			"4. 희귀질환 의료비 지원\n\n" +
			"소득 수준과 질병 유형에 따라 지원 범위가 다릅니다. 더 자세한 정보가 필요하시면 구체적인 상황을 말씀해 주세요!",
	},
	{
		Any: []string{"육아", "자녀", "아이", "출산"},
		Answer: "육아 및 출산 관련 지원 제도를 안내해드릴게요! 👶\n\n주요 육아 지원:\n" +
			"1. 아동수당 (월 10만원)\n" +
			"2. 양육수당\n" +
			"3. 보육료 지원\n" +
			"4. 출산 지원금\n" +
			"5. 육아휴직 급여\n\n" +
			"자녀 수와 나이, 소득 수준에 따라 지원 내용이 달라져요. 가족 상황을 알려주시면 맞춤형 정보를 제공해드릴 수 있습니다!",
	},
	{
		Any: []string{"신청", "어디서", "방법"},
		Answer: "복지 혜택 신청 방법을 안내해드릴게요! 📝\n\n신청 방법:\n" +
			"1. 온라인: 복지로 홈페이지 (www.bokjiro.go.kr)\n" +
			"2. 방문: 주민센터, 구청/시청\n" +
			"3. 전화: 보건복지상담센터 129\n\n" +
			"필요 서류:\n- 신분증\n- 소득 증빙서류\n- 가족관계증명서 등\n\n" +
			"구체적인 복지 제도를 말씀해주시면 더 정확한 신청 방법을 안내해드릴게요!",
	},
	{
		Any: []string{"안녕", "처음", "시작"},
		Answer: "안녕하세요! 복지콕 상담 챗봇입니다! 😊\n\n다음과 같은 복지 상담이 가능해요:\n" +
			"• 청년 지원 제도\n• 주거 지원 (월세, 전세)\n• 교육비 지원 (장학금)\n" +
			"• 취업 지원\n• 의료비 지원\n• 육아 지원\n\n" +
			"어떤 복지 혜택이 궁금하신가요?",
	},
}

const noMatchAnswer = "죄송합니다. 해당 질문에 대한 정확한 답변을 드리기 어려워요. 😅\n\n" +
	"다음과 같은 키워드로 질문해보세요:\n" +
	"• 청년 지원\n• 주거 지원\n• 교육비 지원\n• 취업 지원\n• 의료비 지원\n• 육아 지원\n\n" +
	"더 구체적인 상황을 알려주시면 맞춤형 안내를 해드릴 수 있어요!"

// LocalResponder answers from the fixed rule table. It is deterministic: the
// same input always yields the same answer.
type LocalResponder struct{}

func NewLocalResponder() *LocalResponder {
	return &LocalResponder{}
}

func (r *LocalResponder) Reply(_ context.Context, message string, _ *models.Profile) (*Reply, error) {
	return &Reply{Text: Answer(message)}, nil
}

// Answer maps a user message to the first matching canned answer.
func Answer(message string) string {
	message = strings.ToLower(message)
	for _, r := range responderRules {
		if r.matches(message) {
			return r.Answer
		}
	}
	return noMatchAnswer
}
