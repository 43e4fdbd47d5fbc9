package http

import (
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

type ProductMatchResponse struct {
	ProductID           string          `json:"product_id"`
	Name                string          `json:"name"`
	Brand               string          `json:"brand"`
	Category            string          `json:"category"`
	Price               decimal.Decimal `json:"price" swaggertype:"string"`
	Currency            string          `json:"currency"`
	ImageURL            string          `json:"image_url,omitempty"`
	RetailerName        string          `json:"retailer_name"`
	RetailerURL         string          `json:"retailer_url,omitempty"`
	AffiliateURL        string          `json:"affiliate_url,omitempty"`
	SimilarityScore     float64         `json:"similarity_score"`
	Rank                int             `json:"rank"`
	IsBudgetAlternative bool            `json:"is_budget_alternative"`
}

type DetectedItemResponse struct {
	ItemID     string                 `json:"item_id"`
	Category   string                 `json:"category"`
	BBoxX      float64                `json:"bbox_x"`
	BBoxY      float64                `json:"bbox_y"`
	BBoxWidth  float64                `json:"bbox_width"`
	BBoxHeight float64                `json:"bbox_height"`
	Confidence float64                `json:"confidence"`
	Matches    []ProductMatchResponse `json:"matches"`
}

type ScanResponse struct {
	ScanID           string                 `json:"scan_id"`
	UserID           string                 `json:"user_id,omitempty"`
	ImageKey         string                 `json:"image_key"`
	Status           string                 `json:"status"`
	ItemCount        int                    `json:"item_count"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
	DetectedItems    []DetectedItemResponse `json:"detected_items"`
	CreatedAt        time.Time              `json:"created_at"`
	CompletedAt      *time.Time             `json:"completed_at,omitempty"`
}

type ScanListItemResponse struct {
	ScanID    string    `json:"scan_id"`
	Status    string    `json:"status"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

type ScanListResponse struct {
	Scans []ScanListItemResponse `json:"scans"`
	Total int                    `json:"total"`
	Skip  int                    `json:"skip"`
	Limit int                    `json:"limit"`
}

type MatchRequest struct {
	Category string `json:"category"`
	Query    string `json:"query,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type MatchResponse struct {
	Category   string                 `json:"category"`
	Candidates int                    `json:"candidates"`
	Matches    []ProductMatchResponse `json:"matches"`
}

type CategoryStatsResponse struct {
	Categories map[string]int `json:"categories"`
}

func toProductMatchResponse(p *domain.Product, rank int, score float64, budget bool) ProductMatchResponse {
	return ProductMatchResponse{
		ProductID:           p.ID,
		Name:                p.Name,
		Brand:               p.Brand,
		Category:            p.Category,
		Price:               p.Price,
		Currency:            p.Currency,
		ImageURL:            p.ImageURL,
		RetailerName:        p.RetailerName,
		RetailerURL:         p.RetailerURL,
		AffiliateURL:        p.AffiliateURL,
		SimilarityScore:     score,
		Rank:                rank,
		IsBudgetAlternative: budget,
	}
}

func toItemMatchResponses(matches []domain.ItemMatch) []ProductMatchResponse {
	res := make([]ProductMatchResponse, 0, len(matches))
	for _, m := range matches {
		product := m.Product
		if product == nil {
			product = &domain.Product{ID: m.ProductID}
		}
		res = append(res, toProductMatchResponse(product, m.Rank, m.SimilarityScore, m.IsBudgetAlternative))
	}
	return res
}

func toRankedMatchResponses(matches []domain.RankedMatch) []ProductMatchResponse {
	res := make([]ProductMatchResponse, 0, len(matches))
	for _, m := range matches {
		res = append(res, toProductMatchResponse(&m.Product, m.Rank, m.DisplayScore, m.IsBudgetAlternative))
	}
	return res
}

func toScanResponse(scan *domain.Scan) *ScanResponse {
	items := make([]DetectedItemResponse, 0, len(scan.Items))
	for _, it := range scan.Items {
		items = append(items, DetectedItemResponse{
			ItemID:     it.ID,
			Category:   it.Category,
			BBoxX:      it.BBox.X,
			BBoxY:      it.BBox.Y,
			BBoxWidth:  it.BBox.Width,
			BBoxHeight: it.BBox.Height,
			Confidence: it.Confidence,
			Matches:    toItemMatchResponses(it.Matches),
		})
	}

	return &ScanResponse{
		ScanID:           scan.ID,
		UserID:           scan.UserID,
		ImageKey:         scan.ImageKey,
		Status:           string(scan.Status),
		ItemCount:        scan.ItemCount,
		ProcessingTimeMs: scan.ProcessingTimeMs,
		DetectedItems:    items,
		CreatedAt:        scan.CreatedAt,
		CompletedAt:      scan.CompletedAt,
	}
}

func toScanListResponse(res *usecase.ListScansRes) *ScanListResponse {
	scans := make([]ScanListItemResponse, 0, len(res.Scans))
	for _, s := range res.Scans {
		scans = append(scans, ScanListItemResponse{
			ScanID:    s.ID,
			Status:    string(s.Status),
			ItemCount: s.ItemCount,
			CreatedAt: s.CreatedAt,
		})
	}

	return &ScanListResponse{
		Scans: scans,
		Total: res.Total,
		Skip:  res.Skip,
		Limit: res.Limit,
	}
}

func toMatchResponse(res *usecase.MatchItemRes) *MatchResponse {
	return &MatchResponse{
		Category:   res.Category,
		Candidates: res.Candidates,
		Matches:    toRankedMatchResponses(res.Matches),
	}
}
