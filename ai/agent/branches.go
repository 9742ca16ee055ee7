package agent

import (
	"github.com/feeleurope/luxeagent/ai/ranking"
	"github.com/feeleurope/luxeagent/ai/routing"
	"github.com/feeleurope/luxeagent/store"
)

// conversationResponse answers chat and other intents: responder reply, then
// the classifier message, then the fixed default for the intent.
func conversationResponse(d routing.Decision, reply string) *Response {
	msg := reply
	if msg == "" {
		msg = d.Message
	}
	if msg == "" {
		if d.Intent == routing.IntentChat {
			msg = msgChatDefault
		} else {
			msg = msgOtherDefault
		}
	}
	return &Response{Message: msg, Intent: string(d.Intent)}
}

// productFacts is what the fallback templates need from the best candidate.
type productFacts struct {
	matched   bool
	name      string
	price     any
	reference string
	link      string
}

func factsOf(candidates []ranking.Candidate) productFacts {
	if len(candidates) == 0 {
		return productFacts{price: unknownPrice}
	}
	rec := candidates[0].Record
	f := productFacts{
		matched:   true,
		name:      rec.FirstText(store.FieldName, store.FieldDescription, store.FieldReference),
		price:     rec.Price(),
		reference: rec.Reference(),
		link:      rec.Link(),
	}
	if f.name == "" {
		f.name = unknownProduct
	}
	if f.price == nil {
		f.price = unknownPrice
	}
	return f
}

func (f productFacts) message() string {
	msg := "您好！為您查詢到 **" + f.name + "**\n💰 價格：" + store.FormatValue(f.price) + "€\n📦 參考號：" + f.reference
	if f.link != "" {
		msg += "\n🔗 " + f.link
	}
	return msg
}

// priceResponse assembles a price branch answer. A non-empty reply wins;
// otherwise the best candidate is described, else the not-found text.
func priceResponse(intent routing.Intent, candidates []ranking.Candidate, reply string, online bool) *Response {
	f := factsOf(candidates)

	msg := reply
	switch {
	case msg != "":
	case f.matched:
		msg = f.message()
	case online:
		msg = msgNotFoundOnline
	default:
		msg = msgNotFoundLocal
	}

	return &Response{
		Message:    msg,
		Intent:     string(intent),
		Product:    f.name,
		Price:      f.price,
		Reference:  f.reference,
		Link:       f.link,
		Matched:    f.matched,
		Online:     online,
		Candidates: ranking.ToBriefs(candidates),
	}
}
