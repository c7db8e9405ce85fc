package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gotier/internal/domain"
	"gotier/internal/repos"
	"gotier/internal/textcheck"
	"gotier/internal/validate"
)

var (
	errReviewNotFound  = domain.NotFound("Review not found.")
	errProductNotFound = domain.NotFound("Product not found.")
)

type ReviewDeps struct {
	Tx       *repos.TxManager
	Reviews  *repos.ReviewRepo
	Products *repos.ProductRepo
	Text     textcheck.Validator
	DailyCap int
	Clock    func() time.Time
}

type ReviewService struct {
	tx       *repos.TxManager
	reviews  *repos.ReviewRepo
	products *repos.ProductRepo
	text     textcheck.Validator
	dailyCap int
	clock    func() time.Time
}

func NewReviewService(deps ReviewDeps) *ReviewService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	text := deps.Text
	if text == nil {
		text = textcheck.New()
	}
	return &ReviewService{
		tx:       deps.Tx,
		reviews:  deps.Reviews,
		products: deps.Products,
		text:     text,
		dailyCap: deps.DailyCap,
		clock:    clock,
	}
}

type ReviewInput struct {
	Rating  *float64 `json:"rating"`
	Content *string  `json:"content"`
}

// ReactionResult is the outcome of a like, dislike or report.
type ReactionResult struct {
	Message  string `json:"message"`
	IsUseful bool   `json:"is_useful"`
}

func (s *ReviewService) List(ctx context.Context, productID int64) ([]repos.ReviewRow, error) {
	if _, err := s.products.Get(ctx, productID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, errProductNotFound
		}
		return nil, err
	}
	return s.reviews.ListVisible(ctx, productID)
}

func (s *ReviewService) checkContent(content string) (string, error) {
	if err := s.text.Validate(content); err != nil {
		return "", domain.Rejected("content", domain.ReasonInappropriate)
	}
	return content, nil
}

// Create stores the customer's only review of productID.
func (s *ReviewService) Create(ctx context.Context, customerID, productID int64, in ReviewInput) (int64, error) {
	if in.Rating == nil || in.Content == nil {
		return 0, domain.Validation("review", "Rating and content are required.")
	}
	today := s.clock().Format(dateLayout)

	var id int64
	err := s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		reviews := s.reviews.WithTx(tx)
		if _, err := s.products.WithTx(tx).Get(ctx, productID); err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return errProductNotFound
			}
			return err
		}
		if err := DailyCap(ctx, s.dailyCap, today, reviews.CountOn, domain.ReasonDailyReviewCap); err != nil {
			return err
		}
		rv, err := s.validated(*in.Rating, *in.Content)
		if err != nil {
			return err
		}
		rv.Date, rv.CustomerID, rv.ProductID = today, customerID, productID

		id, err = reviews.Create(ctx, rv)
		if errors.Is(err, repos.ErrDuplicate) {
			return domain.BusinessRule(domain.ReasonAlreadyReviewed)
		}
		if err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		_, err = reviews.RecomputeUseful(ctx, id)
		return err
	})
	return id, err
}

func (s *ReviewService) validated(rating float64, content string) (domain.Review, error) {
	if !validate.Rating(rating) {
		return domain.Review{}, domain.Validation("rating", "Rating must be between 1 and 5 in steps of 0.5.")
	}
	content, ok := validate.Content(content)
	if !ok {
		return domain.Review{}, domain.Validation("content", "Content must be between 10 and 45 characters.")
	}
	content, err := s.checkContent(content)
	if err != nil {
		return domain.Review{}, err
	}
	return domain.Review{Rating: rating, Content: content}, nil
}

// Update changes the rating and/or content of the customer's review of productID.
func (s *ReviewService) Update(ctx context.Context, customerID, productID int64, in ReviewInput) (domain.Review, error) {
	if in.Rating == nil && in.Content == nil {
		return domain.Review{}, domain.Validation("review", "Nothing to update.")
	}
	var out domain.Review
	err := s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		reviews := s.reviews.WithTx(tx)
		rv, err := reviews.GetByAuthor(ctx, customerID, productID)
		if errors.Is(err, repos.ErrNotFound) {
			return errReviewNotFound
		}
		if err != nil {
			return err
		}
		rating, content := rv.Rating, rv.Content
		if in.Rating != nil {
			rating = *in.Rating
		}
		if in.Content != nil {
			content = *in.Content
		}
		next, err := s.validated(rating, content)
		if err != nil {
			return err
		}
		rv.Rating, rv.Content = next.Rating, next.Content
		if err := reviews.Update(ctx, rv); err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		if rv.IsUseful, err = reviews.RecomputeUseful(ctx, rv.ID); err != nil {
			return err
		}
		out = rv
		return nil
	})
	return out, err
}

func (s *ReviewService) Delete(ctx context.Context, customerID, productID int64) error {
	rv, err := s.reviews.GetByAuthor(ctx, customerID, productID)
	if errors.Is(err, repos.ErrNotFound) {
		return errReviewNotFound
	}
	if err != nil {
		return err
	}
	return s.reviews.Delete(ctx, rv.ID)
}

// Like toggles the customer's like. A like replaces an existing dislike.
func (s *ReviewService) Like(ctx context.Context, customerID, reviewID int64) (ReactionResult, error) {
	return s.react(ctx, customerID, reviewID, repos.Likes, repos.Dislikes, "Liked.", "Like successfully removed.")
}

// Dislike toggles the customer's dislike. A dislike replaces an existing like.
func (s *ReviewService) Dislike(ctx context.Context, customerID, reviewID int64) (ReactionResult, error) {
	return s.react(ctx, customerID, reviewID, repos.Dislikes, repos.Likes, "Disliked.", "Dislike successfully removed.")
}

// react removes, swaps or adds a reaction and recomputes usefulness in one transaction.
func (s *ReviewService) react(ctx context.Context, customerID, reviewID int64, table, opposite, added, removed string) (ReactionResult, error) {
	var res ReactionResult
	err := s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		reviews := s.reviews.WithTx(tx)
		if _, err := reviews.Get(ctx, reviewID); err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return errReviewNotFound
			}
			return err
		}
		gone, err := reviews.RemoveReaction(ctx, table, reviewID, customerID)
		if err != nil {
			return err
		}
		res.Message = removed
		if !gone {
			if _, err := reviews.RemoveReaction(ctx, opposite, reviewID, customerID); err != nil {
				return err
			}
			if err := reviews.AddReaction(ctx, table, reviewID, customerID); err != nil {
				return err
			}
			res.Message = added
		}
		res.IsUseful, err = reviews.RecomputeUseful(ctx, reviewID)
		return err
	})
	if err != nil {
		return ReactionResult{}, err
	}
	return res, nil
}

// Report flags a review once per customer.
func (s *ReviewService) Report(ctx context.Context, customerID, reviewID int64) (ReactionResult, error) {
	if _, err := s.reviews.Get(ctx, reviewID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return ReactionResult{}, errReviewNotFound
		}
		return ReactionResult{}, err
	}
	err := s.reviews.AddReaction(ctx, repos.Reports, reviewID, customerID)
	if errors.Is(err, repos.ErrDuplicate) {
		return ReactionResult{}, domain.BusinessRule(domain.ReasonAlreadyReported)
	}
	if err != nil {
		return ReactionResult{}, err
	}
	return ReactionResult{Message: "Reported."}, nil
}
