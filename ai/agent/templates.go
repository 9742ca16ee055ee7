package agent

import (
	"strings"
)

// Messages shown when no responder reply is available.
const (
	msgTooLong = `您的查詢內容過長，請精簡後重試。建議直接輸入品牌名稱和商品類型，例如"Dior裙子"或"Gucci包"。`

	msgNotFoundLocal  = `抱歉，暫未找到相關商品。您可以說"在線查詢{品牌}{商品}"我幫您搜索官網。`
	msgNotFoundOnline = `抱歉，暫未找到相關商品。您可以嘗試提供更具體的商品名稱/參考號，或說"在線查詢{品牌}{商品}"我幫您搜索官網。`

	// unknownProduct names a matched record that has no name or reference.
	unknownProduct = "該商品"
	// unknownPrice is reported when no price is known.
	unknownPrice = "未知"
)

var (
	msgChatDefault = strings.Join([]string{
		"您好！我是 Feel 智能助手",
		"",
		"我可以幫您：",
		"• 查詢奢侈品價格（輸入商品名稱或編號）",
		`• 在線搜索品牌新品（說"在線查詢XX品牌商品"）`,
		"",
		"請問有什麼可以幫您的？",
	}, "\n")

	msgOtherDefault = strings.Join([]string{
		"抱歉，我暫時無法理解您的問題",
		"",
		"您可以嘗試：",
		`• 輸入具體商品名稱，如"Dior Lady Dior包"`,
		"• 輸入商品編號/參考號",
		`• 說"在線查詢Gucci裙子"進行網絡搜索`,
		"",
		"如有其他問題，歡迎隨時諮詢！",
	}, "\n")
)

// FeelIntro is the canned company introduction.
const FeelIntro = "**關於 Feel Europe**\n\n" +
	"Chez Feel Europe, nous incarnons l'excellence dans chaque détail. Depuis plus de 10 ans, nous mettons à votre disposition des articles d'exception pour sublimer votre style et votre quotidien. Découvrez un univers où le raffinement rencontre l'élégance, où chaque produit raconte une histoire de perfection.\n\n\n" +
	"在 Feel Europe，我們在每一個細節中追求卓越。十餘年來，我們為您提供非凡的精品，提升您的品味與日常生活品質。在這裡，您將發現一個精緻與優雅交融的世界，每一件產品都訴說著完美的故事。"

var aboutKeywords = []string{
	"feel europe", "feel-europe", "feeleurope", "介绍feel", "feel介绍",
	"什么是feel", "feel是什么", "about feel", "关于feel", "你自己",
}

// IsAboutTopic reports whether the query asks about the company itself.
func IsAboutTopic(q string) bool {
	lower := strings.ToLower(q)
	for _, kw := range aboutKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
