package dto

type ArticlePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Interest    string `json:"interest"`
}

type NewsResponse struct {
	Interests []string         `json:"interests"`
	Articles  []ArticlePayload `json:"articles"`
}
