package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// ListBuyersRequest is bound from query parameters. Filter fields are
// matched for equality against the closed enum sets; search matches
// fullName, email and phone case-insensitively.
type ListBuyersRequest struct {
	Search       string  `form:"search" validate:"max=100"`
	City         *string `form:"city" validate:"omitempty,oneof=Chandigarh Mohali Zirakpur Panchkula Other"`
	PropertyType *string `form:"propertyType" validate:"omitempty,oneof=Apartment Villa Plot Office Retail"`
	Purpose      *string `form:"purpose" validate:"omitempty,oneof=Buy Rent"`
	Timeline     *string `form:"timeline" validate:"omitempty,oneof=ZeroTo3m ThreeTo6m MoreThan6m Exploring"`
	Source       *string `form:"source" validate:"omitempty,oneof=Website Referral Walk_in Call Other"`
	Status       *string `form:"status" validate:"omitempty,oneof=New Qualified Contacted Visited Negotiation Converted Dropped"`
	BHK          *string `form:"bhk" validate:"omitempty,oneof=One Two Three Four Studio"`
	Page         int     `form:"page" validate:"omitempty,min=1"`
	PageSize     int     `form:"pageSize" validate:"omitempty,min=1,max=100"`
	SortBy       string  `form:"sortBy" validate:"omitempty,oneof=createdAt updatedAt fullName status"`
	SortOrder    string  `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ImportRequest carries the raw CSV payload for a bulk import.
type ImportRequest struct {
	CSVData string `json:"csvData" validate:"required"`
}

// Response DTOs

type BuyerResponse struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"fullName"`
	Phone        string    `json:"phone"`
	Email        *string   `json:"email,omitempty"`
	City         string    `json:"city"`
	PropertyType string    `json:"propertyType"`
	Purpose      string    `json:"purpose"`
	Timeline     string    `json:"timeline"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	BHK          *string   `json:"bhk,omitempty"`
	BudgetMin    *int64    `json:"budgetMin,omitempty"`
	BudgetMax    *int64    `json:"budgetMax,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	Tags         []string  `json:"tags"`
	OwnerID      uuid.UUID `json:"ownerId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BuyerDetailResponse is the single-record view, with the edit capability
// of the requesting identity resolved server-side.
type BuyerDetailResponse struct {
	BuyerResponse
	CanEdit bool `json:"canEdit"`
}

type BuyerListResponse struct {
	Items      []BuyerResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// RowError reports the messages collected for one CSV row. Row 0 is used
// for file-level problems.
type RowError struct {
	Row      int      `json:"row"`
	Messages []string `json:"messages"`
}

// ImportResult is the per-row outcome report of a bulk import.
type ImportResult struct {
	Errors       []RowError `json:"errors"`
	SuccessCount int        `json:"successCount"`
	TotalCount   int        `json:"totalCount"`
}
