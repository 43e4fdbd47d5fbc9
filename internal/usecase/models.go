package usecase

import (
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
)

// MATCH USECASE

// MatchItemReq описывает запрос на подбор товаров для одного предмета.
type MatchItemReq struct {
	Category string
	// текст для эмбеддинга, по умолчанию "<category> furniture"
	Query string
	Limit int
}

type MatchItemRes struct {
	Category   string
	Candidates int // сколько кандидатов участвовало в ранжировании
	Matches    []domain.RankedMatch
}

// SCAN USECASE

// CreateScanReq описывает запрос на обработку фотографии комнаты.
type CreateScanReq struct {
	UserID string
	Image  ScanImage
}

// ScanImage представляет фотографию, загруженную через multipart/form-data.
type ScanImage struct {
	Data     []byte
	MimeType string
	Size     int64
	Name     string // оригинальное имя файла (для логов)
}

type GetScanReq struct {
	ScanID string
	UserID string
}

type ListScansReq struct {
	UserID string
	Skip   int
	Limit  int
}

type ListScansRes struct {
	Scans []domain.Scan
	Total int
	Skip  int
	Limit int
}

type DeleteScanReq struct {
	ScanID string
	UserID string
}

// CATALOG USECASE

// SeedCatalogRes содержит итог наполнения каталога.
type SeedCatalogRes struct {
	Products   int
	Embeddings int
	Categories []string
}

// INFRASTRUCTURE

type UploadImageReq struct {
	ScanID string
	Image  ScanImage
}

type WriteRawMessageReq struct {
	Key       string // ID скана, сообщения одного скана попадают в одну партицию
	EventType OutboxEventType
	Payload   []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ScanCompleted OutboxEventType = "scan.completed"
	ScanDeleted   OutboxEventType = "scan.deleted"
)

// OutboxEvent ждёт публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID string // ID скана
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// MAPPERS

func NewMatchItemRes(category string, candidates int, matches []domain.RankedMatch) *MatchItemRes {
	return &MatchItemRes{
		Category:   category,
		Candidates: candidates,
		Matches:    matches,
	}
}

func NewScanImage(data []byte, mimeType string, size int64, name string) *ScanImage {
	return &ScanImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewCreateScanReq(userID string, image ScanImage) *CreateScanReq {
	return &CreateScanReq{
		UserID: userID,
		Image:  image,
	}
}

func NewUploadImageReq(scanID string, image ScanImage) *UploadImageReq {
	return &UploadImageReq{
		ScanID: scanID,
		Image:  image,
	}
}

func NewWriteRawMessageReq(key string, eventType OutboxEventType, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       key,
		EventType: eventType,
		Payload:   payload,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, aggregateID string, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	}
}
