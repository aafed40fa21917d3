package reviews

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type SubmitReviewResponse struct {
	Review *Review      `json:"review"`
	Hotel  *HotelRating `json:"hotel"`
}

type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}
