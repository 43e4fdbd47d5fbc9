package kafka

import (
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ScanEventEncoder сериализует события сканов в protobuf Struct.
type ScanEventEncoder struct {
	now func() time.Time
}

func NewScanEventEncoder() *ScanEventEncoder {
	return &ScanEventEncoder{now: time.Now}
}

// EncodeScanCompleted содержит итог скана: предметы и выбранные для них товары.
func (enc *ScanEventEncoder) EncodeScanCompleted(scan *domain.Scan) ([]byte, error) {
	items := make([]any, 0, len(scan.Items))
	for _, item := range scan.Items {
		matches := make([]any, 0, len(item.Matches))
		for _, m := range item.Matches {
			matches = append(matches, map[string]any{
				"product_id":            m.ProductID,
				"rank":                  m.Rank,
				"similarity_score":      m.SimilarityScore,
				"is_budget_alternative": m.IsBudgetAlternative,
			})
		}

		items = append(items, map[string]any{
			"item_id":    item.ID,
			"category":   item.Category,
			"confidence": item.Confidence,
			"matches":    matches,
		})
	}

	return enc.encode(usecase.ScanCompleted, map[string]any{
		"scan_id":            scan.ID,
		"user_id":            scan.UserID,
		"status":             string(scan.Status),
		"item_count":         scan.ItemCount,
		"processing_time_ms": scan.ProcessingTimeMs,
		"items":              items,
	})
}

func (enc *ScanEventEncoder) EncodeScanDeleted(scanID string) ([]byte, error) {
	return enc.encode(usecase.ScanDeleted, map[string]any{
		"scan_id": scanID,
	})
}

func (enc *ScanEventEncoder) encode(eventType usecase.OutboxEventType, body map[string]any) ([]byte, error) {
	body["event_type"] = string(eventType)
	body["occurred_at"] = enc.now().UTC().Format(time.RFC3339Nano)

	s, err := structpb.NewStruct(body)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	data, err := proto.Marshal(s)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}
