package transport

import "buyerleads_backend/internal/buyers/repository"

// ToBuyerResponse maps a stored record to its API representation.
func ToBuyerResponse(b repository.Buyer) BuyerResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return BuyerResponse{
		ID:           b.ID,
		FullName:     b.FullName,
		Phone:        b.Phone,
		Email:        b.Email,
		City:         b.City,
		PropertyType: b.PropertyType,
		Purpose:      b.Purpose,
		Timeline:     b.Timeline,
		Source:       b.Source,
		Status:       b.Status,
		BHK:          b.BHK,
		BudgetMin:    b.BudgetMin,
		BudgetMax:    b.BudgetMax,
		Notes:        b.Notes,
		Tags:         tags,
		OwnerID:      b.OwnerID,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// ToBuyerListResponse assembles a paginated list response.
func ToBuyerListResponse(buyers []repository.Buyer, total, page, pageSize int) BuyerListResponse {
	items := make([]BuyerResponse, len(buyers))
	for i, b := range buyers {
		items[i] = ToBuyerResponse(b)
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return BuyerListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
