package request_models

type CreateAttractionRequest struct {
	Name       string  `json:"name" binding:"required,max=255"`
	ImageURL   string  `json:"imageUrl" binding:"omitempty,url"`
	UserRating float64 `json:"userRating" binding:"gte=0,lte=5"`
}

type SearchAttractionsQuery struct {
	Term      string  `form:"q"`
	MinRating float64 `form:"minRating" binding:"gte=0,lte=5"`
	Page      int     `form:"page,default=1" binding:"min=1"`
	PageSize  int     `form:"pageSize,default=20" binding:"min=1,max=100"`
}
