package service

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/snaplink-io/snaplink/internal/errors"
	"github.com/snaplink-io/snaplink/internal/model"
	"github.com/snaplink-io/snaplink/internal/store"
	"github.com/snaplink-io/snaplink/internal/utils"
)

const defaultMaxAttempts = 10

type LinkService struct {
	links       store.LinkStore
	baseURL     string
	maxAttempts int
}

func NewLinkService(links store.LinkStore, baseURL string) *LinkService {
	return &LinkService{
		links:       links,
		baseURL:     baseURL,
		maxAttempts: defaultMaxAttempts,
	}
}

// Shorten выделяет код (алиас или сгенерированный), создает запись и
// возвращает короткую ссылку. Проверка существования и последующая
// запись - не одна атомарная операция: два конкурентных запроса могут
// оба увидеть свободный код, и вторая запись молча перезапишет первую.
// Известная слабость, унаследованная от схемы check-then-act.
func (s *LinkService) Shorten(ctx context.Context, req *model.ShortenRequest) (*model.ShortenResponse, error) {
	sanitizedURL := utils.SanitizeInput(req.URL)

	if err := utils.ValidateURL(sanitizedURL); err != nil {
		return nil, err
	}

	var code string

	if req.Alias != "" {
		if err := utils.ValidateAlias(req.Alias); err != nil {
			return nil, err
		}

		exists, err := s.links.Exists(ctx, req.Alias)
		if err != nil {
			return nil, fmt.Errorf("failed to check alias: %w", err)
		}
		if exists {
			return nil, apperrors.ErrAliasTaken
		}

		code = req.Alias
	} else {
		generated, err := s.allocateCode(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	}

	now := time.Now().UTC()

	link := &model.Link{
		OriginalURL: sanitizedURL,
		CreatedAt:   now,
		ClickCount:  0,
	}

	var ttl time.Duration
	if req.ExpirationDays > 0 {
		ttl = time.Duration(req.ExpirationDays) * 24 * time.Hour
		expiresAt := now.Add(ttl)
		link.ExpiresAt = &expiresAt
	}

	if err := s.links.Put(ctx, code, link, ttl); err != nil {
		return nil, fmt.Errorf("failed to store link: %w", err)
	}

	return &model.ShortenResponse{
		Code:     code,
		ShortURL: s.buildShortURL(code),
	}, nil
}

// Resolve возвращает оригинальный URL для редиректа. Инкремент клика
// выполняется до отправки редиректа - если доставка ответа сорвется,
// клик все равно засчитан (отката нет).
func (s *LinkService) Resolve(ctx context.Context, code string) (string, error) {
	link, err := s.links.Get(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to get link: %w", err)
	}
	if link == nil {
		return "", apperrors.ErrLinkNotFound
	}

	// Логическая проверка истечения: запись может еще не быть
	// вытеснена хранилищем, но считается истекшей.
	if link.Expired(time.Now().UTC()) {
		return "", apperrors.ErrLinkExpired
	}

	if err := s.links.IncrementClick(ctx, code); err != nil {
		return "", fmt.Errorf("failed to record click: %w", err)
	}

	return link.OriginalURL, nil
}

// Stats - read-only проекция записи. Истекшие, но еще не вытесненные
// ссылки статистику отдают (в отличие от Resolve).
func (s *LinkService) Stats(ctx context.Context, code string) (*model.StatsResponse, error) {
	link, err := s.links.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	if link == nil {
		return nil, apperrors.ErrLinkNotFound
	}

	return &model.StatsResponse{
		Code:        code,
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
		ClickCount:  link.ClickCount,
		ExpiresAt:   link.ExpiresAt,
	}, nil
}

func (s *LinkService) allocateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code, err := utils.GenerateCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}

		exists, err := s.links.Exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code: %w", err)
		}

		if !exists {
			return code, nil
		}
	}

	return "", apperrors.ErrCodeGeneration
}

func (s *LinkService) buildShortURL(code string) string {
	return fmt.Sprintf("%s/r/%s", s.baseURL, code)
}
