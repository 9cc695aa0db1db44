package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/ports/output"
)

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type CreateArtifactInput struct {
	ID          string
	Description string
	File        *Upload
}

// UpdateArtifactInput keeps the stored file when File is nil.
type UpdateArtifactInput struct {
	Description string
	File        *Upload
}

type ArtifactDetail struct {
	Artifact   *domain.Artifact
	Department string
	Current    int
	History    []*domain.Version
}

type UpdateResult struct {
	Artifact *domain.Artifact
	Version  int
}

type DeleteResult struct {
	ID          string
	FileRemoved bool
	Warning     string
}

type ArtifactService struct {
	repo           ports.ArtifactRepository
	files          ports.FileStore
	maxUploadBytes int64
	locks          *keyedMutex
	now            func() time.Time
}

func NewArtifactService(repo ports.ArtifactRepository, files ports.FileStore, maxUploadBytes int64) *ArtifactService {
	return &ArtifactService{
		repo:           repo,
		files:          files,
		maxUploadBytes: maxUploadBytes,
		locks:          newKeyedMutex(),
		now:            time.Now,
	}
}

// MaxUploadBytes is the largest file accepted; zero means no limit.
func (s *ArtifactService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

func (s *ArtifactService) Create(ctx context.Context, p domain.Principal, in CreateArtifactInput) (*domain.Artifact, *domain.Version, error) {
	if !p.CanWrite() {
		return nil, nil, domain.ErrPermissionDenied
	}

	id := domain.NormalizeArtifactID(in.ID)
	description := strings.TrimSpace(in.Description)
	if id == "" || description == "" {
		return nil, nil, domain.ErrMissingFields
	}
	if !domain.HasAllowedPrefix(id) {
		return nil, nil, domain.ErrInvalidPrefix
	}
	if in.File == nil || in.File.Filename == "" {
		return nil, nil, domain.ErrMissingFile
	}
	name, err := s.checkUpload(in.File)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.repo.Get(ctx, id); err == nil {
		return nil, nil, domain.ErrArtifactExists
	} else if !errors.Is(err, domain.ErrArtifactNotFound) {
		return nil, nil, err
	}

	path, err := s.files.Save(ctx, name, in.File.Content, in.File.Size)
	if err != nil {
		return nil, nil, err
	}

	artifact := &domain.Artifact{ID: id, Description: description, Path: path}
	initial := &domain.Version{
		ArtifactID:  id,
		Version:     domain.InitialVersion,
		Description: description,
		User:        p.UserID,
		ChangedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, artifact, initial); err != nil {
		s.discardUpload(ctx, id, path)
		return nil, nil, err
	}
	return artifact, initial, nil
}

func (s *ArtifactService) Get(ctx context.Context, id string) (*domain.Artifact, error) {
	return s.repo.Get(ctx, domain.NormalizeArtifactID(id))
}

func (s *ArtifactService) Detail(ctx context.Context, id string) (*ArtifactDetail, error) {
	id = domain.NormalizeArtifactID(id)
	artifact, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.History(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ArtifactDetail{
		Artifact:   artifact,
		Department: domain.DepartmentCode(id),
		History:    history,
	}
	if len(history) > 0 {
		detail.Current = history[0].Version
	}
	return detail, nil
}

func (s *ArtifactService) Update(ctx context.Context, p domain.Principal, id string, in UpdateArtifactInput) (*UpdateResult, error) {
	if !p.CanWrite() {
		return nil, domain.ErrPermissionDenied
	}

	id = domain.NormalizeArtifactID(id)
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, domain.ErrMissingFields
	}

	replace := in.File != nil && in.File.Filename != ""
	var name string
	if replace {
		var err error
		if name, err = s.checkUpload(in.File); err != nil {
			return nil, err
		}
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	path := current.Path
	if replace {
		if path, err = s.files.Save(ctx, name, in.File.Content, in.File.Size); err != nil {
			return nil, err
		}
	}

	version, err := s.repo.Update(ctx, ports.VersionUpdate{
		ArtifactID:  id,
		Description: description,
		Path:        path,
		User:        p.UserID,
		ChangedAt:   s.now(),
	})
	if err != nil {
		if replace {
			s.discardUpload(ctx, id, path)
		}
		return nil, err
	}

	return &UpdateResult{
		Artifact: &domain.Artifact{ID: id, Description: description, Path: path},
		Version:  version,
	}, nil
}

// Delete removes the catalog entry first; the stored file is removed afterwards
// on a best-effort basis and a failure only produces a warning.
func (s *ArtifactService) Delete(ctx context.Context, p domain.Principal, id string) (*DeleteResult, error) {
	if !p.CanWrite() {
		return nil, domain.ErrPermissionDenied
	}

	id = domain.NormalizeArtifactID(id)
	unlock := s.locks.Lock(id)
	defer unlock()

	out, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &DeleteResult{ID: id}
	if out.PathShared {
		res.Warning = "file kept: another artifact still references " + filepath.Base(out.Path)
		return res, nil
	}

	err = s.files.Remove(ctx, out.Path)
	switch {
	case err == nil:
		res.FileRemoved = true
	case errors.Is(err, domain.ErrFileNotFound):
	default:
		log.WithError(err).WithField("artifact_id", id).Warn("artifact file could not be removed")
		res.Warning = "could not remove the stored file: " + err.Error()
	}
	return res, nil
}

// Open returns the stored archive of an artefact and the name to download it as.
func (s *ArtifactService) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	artifact, err := s.repo.Get(ctx, domain.NormalizeArtifactID(id))
	if err != nil {
		return nil, "", err
	}
	rc, err := s.files.Open(ctx, artifact.Path)
	if err != nil {
		return nil, "", err
	}
	return rc, filepath.Base(artifact.Path), nil
}

// discardUpload removes a file saved for a write that did not commit. A file
// some artefact still points at is left alone.
func (s *ArtifactService) discardUpload(ctx context.Context, id, path string) {
	ctx = context.WithoutCancel(ctx)
	entry := log.WithFields(log.Fields{"artifact_id": id, "path": path})

	inUse, err := s.repo.PathInUse(ctx, path)
	if err != nil {
		entry.WithError(err).Warn("orphaned upload kept: reference check failed")
		return
	}
	if inUse {
		entry.Warn("failed upload overwrote a file another artifact references")
		return
	}
	if err := s.files.Remove(ctx, path); err != nil && !errors.Is(err, domain.ErrFileNotFound) {
		entry.WithError(err).Warn("orphaned upload could not be removed")
	}
}

// checkUpload validates a client file and returns the name it is stored under.
func (s *ArtifactService) checkUpload(f *Upload) (string, error) {
	if !domain.HasArchiveExtension(f.Filename) {
		return "", domain.ErrInvalidExtension
	}
	name := domain.SecureFilename(f.Filename)
	if name == "" || !domain.HasArchiveExtension(name) {
		return "", domain.ErrInvalidFilename
	}
	if s.maxUploadBytes > 0 && f.Size > s.maxUploadBytes {
		return "", domain.ErrFileTooLarge
	}
	return name, nil
}
