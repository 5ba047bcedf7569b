package fallback

import (
	"fmt"
	"time"

	"github.com/coindex/proxy/pkg/models"
)

type cannedItem struct {
	title      string
	summary    string
	content    string
	category   string
	importance string
}

var cannedNews = []cannedItem{
	{
		title:      "비트코인 강세 지속, 주요 저항선 돌파 시도",
		summary:    "비트코인이 기관 자금 유입과 함께 상승세를 이어가며 주요 저항선 돌파를 시도하고 있습니다.",
		content:    "암호화폐 시장에서 비트코인의 움직임이 주목받고 있습니다. 기관투자자들의 유입이 지속되는 가운데 전문가들은 현재 지지선이 견고하다고 분석하고 있습니다.",
		category:   "bitcoin",
		importance: "high",
	},
	{
		title:      "이더리움 네트워크 업그레이드 완료, 수수료 부담 완화",
		summary:    "이더리움 네트워크의 주요 업데이트가 완료되어 가스비가 크게 줄어들었습니다.",
		content:    "이더리움 개발팀이 배포한 업데이트는 네트워크 성능과 보안을 개선했습니다. 수수료 절감 효과가 두드러져 온체인 활동 증가가 예상됩니다.",
		category:   "ethereum",
		importance: "high",
	},
	{
		title:      "디파이 총예치액 다시 증가세, 신규 프로토콜 유입 활발",
		summary:    "디파이 생태계의 총예치액이 회복세를 보이며 신규 프로토콜이 빠르게 자리잡고 있습니다.",
		content:    "탈중앙화 금융 영역에서 스테이킹과 유동성 공급을 통한 수익 기회가 다시 주목받고 있습니다.",
		category:   "defi",
		importance: "medium",
	},
	{
		title:      "알트코인 거래대금 급증, 시장 전반에 온기 확산",
		summary:    "비트코인 도미넌스가 완화되면서 주요 알트코인들의 거래대금이 크게 늘었습니다.",
		content:    "레이어1 블록체인과 인프라 관련 토큰들이 상대적 강세를 보이며 투자자들의 관심이 분산되고 있습니다.",
		category:   "crypto",
		importance: "medium",
	},
	{
		title:      "정부, 가상자산 제도화 논의 속도, 가이드라인 발표 임박",
		summary:    "가상자산 산업 제도화를 위한 규제 샌드박스 확대와 가이드라인 정비가 진행 중입니다.",
		content:    "국내 가상자산 시장의 건전한 발전을 위한 제도 정비가 이어지고 있으며, 스테이블코인 관련 가이드라인이 조만간 발표될 예정입니다.",
		category:   "regulation",
		importance: "high",
	},
	{
		title:      "NFT 거래량 반등, 유틸리티 중심으로 시장 재편",
		summary:    "NFT 시장 거래량이 전월 대비 크게 늘며 유틸리티형 프로젝트 중심으로 회복되고 있습니다.",
		content:    "단순 수집품을 넘어 실사용처를 제공하는 NFT가 인기를 끌며 시장 회복을 이끌고 있습니다.",
		category:   "nft",
		importance: "medium",
	},
}

// News returns the canned item set with synthesized timestamps spaced
// backward from now in 30-minute steps, so repeated fallback responses still
// look chronologically sane.
func News(now time.Time) []models.NewsItem {
	items := make([]models.NewsItem, 0, len(cannedNews))
	for i, c := range cannedNews {
		items = append(items, models.NewsItem{
			ID:          fmt.Sprintf("fallback-%d", i+1),
			Title:       c.title,
			Summary:     c.summary,
			Content:     c.content,
			Link:        "https://coinness.com",
			PublishedAt: now.Add(-time.Duration(i) * 30 * time.Minute),
			Source:      "Coinness",
			Thumbnail:   nil,
			Category:    c.category,
			Importance:  c.importance,
		})
	}
	return items
}
