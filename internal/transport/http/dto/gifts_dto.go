package dto

import "time"

type GiftSendRequest struct {
	RecipientID int64  `json:"recipient_id"`
	GiftType    string `json:"gift_type"`
	Message     string `json:"message"`
}

type GiftPayload struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	GiftType    string    `json:"gift_type"`
	Message     string    `json:"message"`
	FeeCents    int64     `json:"fee_cents"`
	RedeemCode  string    `json:"redeem_code"`
	Redeemed    bool      `json:"redeemed"`
	CreatedAt   time.Time `json:"created_at"`
}

type GiftListResponse struct {
	Gifts []GiftPayload `json:"gifts"`
}
