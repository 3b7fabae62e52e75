package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	repo "github.com/oksasatya/brew-catalog-api/internal/domain/repository"
	"github.com/oksasatya/brew-catalog-api/pkg/validation"
)

type CreateBeerInput struct {
	Name             string `json:"name" form:"name" validate:"required"`
	Tagline          string `json:"tagline" form:"tagline" validate:"required"`
	Description      string `json:"description" form:"description" validate:"required"`
	FirstBrewed      string `json:"first_brewed" form:"first_brewed" validate:"required"`
	BrewersTips      string `json:"brewers_tips" form:"brewers_tips" validate:"required"`
	AttenuationLevel string `json:"attenuation_level" form:"attenuation_level" validate:"required"`
	ContributedBy    string `json:"contributed_by" form:"contributed_by" validate:"required"`
}

// ImageUpload is an image file received alongside a beer.
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// IndexJob asks the index worker to (re)index one beer.
type IndexJob struct {
	BeerID string `json:"beer_id"`
}

var beerMessages = map[string]string{
	"name":              "How am I supposed to call this beer?",
	"tagline":           "Beers need taglines.",
	"description":       "Beers deserve descriptions!",
	"first_brewed":      msgFirstBrewed,
	"brewers_tips":      "What, no tips? How am I supposed to drink. With which food am I supposed to pair this. I'm so confused.",
	"attenuation_level": msgAttenuation,
	"contributed_by":    "Come on! Are you not proud of this beer?",
}

const (
	msgFirstBrewed    = "Beers should have a day of birth too. :( Please provide a date in the right format."
	msgAttenuation    = "Which color has this beer? Please provide the attenuation_level as a number."
	msgBeerNameTaken  = "A beer with this name already exists."
	msgImageFormat    = "Only jpg and png images are allowed."
	sniffLen          = 3072
	defaultListLimit  = 20
	maxListLimit      = 100
	defaultSearchSize = 10
	maxSearchSize     = 50
)

var firstBrewedLayouts = []string{"2006-01-02", "01/2006", "2006-01", time.RFC3339}

type BeerService struct {
	Repo        repo.BeerRepository
	Images      repo.ImageStore
	ImageFolder string
	Index       repo.BeerIndex
	Jobs        repo.JobPublisher
	Logger      *logrus.Logger
}

func NewBeerService(r repo.BeerRepository, images repo.ImageStore, imageFolder string, index repo.BeerIndex, jobs repo.JobPublisher, logger *logrus.Logger) *BeerService {
	return &BeerService{
		Repo:        r,
		Images:      images,
		ImageFolder: imageFolder,
		Index:       index,
		Jobs:        jobs,
		Logger:      logger,
	}
}

// Create validates and stores a beer, uploading img first when present.
// ownerID may be empty for anonymous contributions.
func (s *BeerService) Create(ctx context.Context, in CreateBeerInput, ownerID string, img *ImageUpload) (*entity.Beer, error) {
	in.Name = strings.TrimSpace(in.Name)
	fields := validation.FieldErrors(in, beerMessages)
	if fields == nil {
		fields = map[string]string{}
	}

	b := &entity.Beer{
		Name:          in.Name,
		Tagline:       in.Tagline,
		Description:   in.Description,
		BrewersTips:   in.BrewersTips,
		ContributedBy: in.ContributedBy,
		ImageURL:      entity.DefaultBeerImageURL,
		OwnerID:       ownerID,
	}

	if _, bad := fields["first_brewed"]; !bad {
		t, ok := parseFirstBrewed(in.FirstBrewed)
		if !ok {
			fields["first_brewed"] = msgFirstBrewed
		}
		b.FirstBrewed = t
	}
	if _, bad := fields["attenuation_level"]; !bad {
		lvl, err := strconv.ParseFloat(strings.TrimSpace(in.AttenuationLevel), 64)
		if err != nil {
			fields["attenuation_level"] = msgAttenuation
		}
		b.AttenuationLevel = lvl
	}
	if _, bad := fields["name"]; !bad {
		_, err := s.Repo.GetByName(ctx, b.Name)
		switch {
		case err == nil:
			fields["name"] = msgBeerNameTaken
		case !errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("beer name check: %w", err)
		}
	}

	var (
		body        io.Reader
		contentType string
		objectPath  string
	)
	if img != nil {
		var ext string
		var ok bool
		body, contentType, ext, ok = sniffImage(img.Reader)
		if !ok {
			fields["image"] = msgImageFormat
		}
		objectPath = s.objectPath(img.Filename, ext)
	}

	if len(fields) > 0 {
		return nil, validation.NewError("beer", fields)
	}

	if img != nil {
		if s.Images == nil {
			return nil, ErrImageStoreDisabled
		}
		url, err := s.Images.Upload(ctx, objectPath, contentType, body)
		if err != nil {
			return nil, fmt.Errorf("upload beer image: %w", err)
		}
		b.ImageURL = url
	}

	if err := s.Repo.Create(ctx, b); err != nil {
		if img != nil {
			if dErr := s.Images.Delete(ctx, objectPath); dErr != nil && s.Logger != nil {
				s.Logger.WithError(dErr).WithField("object", objectPath).Warn("orphaned beer image not removed")
			}
		}
		return nil, err
	}

	metricBeersCreated.Add(1)
	s.scheduleIndex(ctx, b)
	return b, nil
}

func (s *BeerService) Get(ctx context.Context, id string) (*entity.Beer, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrBeerNotFound
	}
	return b, err
}

func (s *BeerService) List(ctx context.Context, limit, offset int) ([]entity.Beer, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, limit, offset)
}

// Search runs a full-text query over name, tagline, brewers_tips and
// description. The search index is preferred; the database answers when no
// index is configured or the index fails.
func (s *BeerService) Search(ctx context.Context, query string, size int) ([]entity.Beer, error) {
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	if s.Index != nil {
		res, err := s.Index.Search(ctx, query, size)
		if err == nil {
			return res, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("search index unavailable, falling back to database")
		}
	}
	return s.Repo.Search(ctx, query, size)
}

// IndexBeer loads a beer and pushes it to the search index.
func (s *BeerService) IndexBeer(ctx context.Context, id string) error {
	if s.Index == nil {
		return errors.New("search index not configured")
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.Index.Index(ctx, b)
}

func (s *BeerService) scheduleIndex(ctx context.Context, b *entity.Beer) {
	if s.Jobs != nil {
		err := s.Jobs.PublishJSON(ctx, IndexJob{BeerID: b.ID})
		if err == nil {
			return
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("beer_id", b.ID).Warn("publish index job failed, indexing inline")
		}
	}
	if s.Index == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Index.Index(c, b); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("beer_id", b.ID).Warn("index beer failed")
	}
}

func (s *BeerService) objectPath(filename, ext string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	if base == "" || base == "." {
		base = "image"
	}
	folder := s.ImageFolder
	if folder == "" {
		folder = "thing-gallery"
	}
	return path.Join(folder, uuid.NewString()+"-"+base+ext)
}

func parseFirstBrewed(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range firstBrewedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// sniffImage detects the content type from the leading bytes and returns a
// reader that still yields the whole file.
func sniffImage(r io.Reader) (io.Reader, string, string, bool) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", "", false
	}
	head = head[:n]
	body := io.MultiReader(bytes.NewReader(head), r)

	mt := mimetype.Detect(head)
	switch {
	case mt.Is("image/jpeg"):
		return body, "image/jpeg", ".jpg", true
	case mt.Is("image/png"):
		return body, "image/png", ".png", true
	default:
		return body, "", "", false
	}
}
