// Package chatbot answers customer questions from a keyword table. It is a
// convenience surface: unknown input gets the default reply, never an error.
package chatbot

import "strings"

type Responder struct {
	replies      []keywordReply
	defaultReply string
}

type keywordReply struct {
	keywords []string
	reply    string
}

func NewResponder() *Responder {
	return &Responder{
		replies: []keywordReply{
			{[]string{"delivery", "shipping"}, "Delivery is a flat $4.99, free on orders of $150 or more."},
			{[]string{"return", "refund"}, "You can return any unopened item within 30 days for a full refund."},
			{[]string{"order", "track"}, "You can check your order status under My Orders."},
			{[]string{"stock", "available"}, "Product pages show live availability; items in your cart are not reserved until checkout."},
			{[]string{"hello", "hi", "hey"}, "Hi there! Ask me about delivery, returns or your orders."},
		},
		defaultReply: "Sorry, I didn't catch that. Try asking about delivery, returns or your orders.",
	}
}

func (r *Responder) Reply(message string) string {
	lowered := strings.ToLower(message)
	for _, entry := range r.replies {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return entry.reply
			}
		}
	}
	return r.defaultReply
}
