package dto

import (
	"time"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/services"
)

// CreateArtifactForm is the non-file part of the multipart create request.
type CreateArtifactForm struct {
	ID          string `form:"id"`
	Description string `form:"description"`
}

type UpdateArtifactForm struct {
	Description string `form:"description"`
}

type DepartmentResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

type ArtifactSummaryResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Version     int    `json:"version"`
	User        string `json:"user"`
	ChangedAt   string `json:"changed_at"`
}

type ListArtifactsResponse struct {
	Prefix string                    `json:"prefix,omitempty"`
	Sort   string                    `json:"sort,omitempty"`
	Query  string                    `json:"query,omitempty"`
	Items  []ArtifactSummaryResponse `json:"items"`
	Total  int                       `json:"total"`
}

type VersionResponse struct {
	Version     int    `json:"version"`
	Description string `json:"description"`
	User        string `json:"user"`
	ChangedAt   string `json:"changed_at"`
}

type ArtifactResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
}

type ArtifactDetailResponse struct {
	ArtifactResponse
	Department     string                   `json:"department"`
	CurrentVersion int                      `json:"current_version"`
	Latest         *ArtifactSummaryResponse `json:"latest,omitempty"`
	History        []VersionResponse        `json:"history"`
}

type CreateArtifactResponse struct {
	ArtifactResponse
	Version   int    `json:"version"`
	User      string `json:"user"`
	ChangedAt string `json:"changed_at"`
}

type UpdateArtifactResponse struct {
	ArtifactResponse
	Version int `json:"version"`
}

type DeleteArtifactResponse struct {
	ID          string `json:"id"`
	Deleted     bool   `json:"deleted"`
	FileRemoved bool   `json:"file_removed"`
	Warning     string `json:"warning,omitempty"`
}

func ToDepartmentResponse(d domain.Department) DepartmentResponse {
	return DepartmentResponse{Code: d.Code, Name: d.Name, Prefix: d.Code + "_Z"}
}

func ToArtifactSummaryResponse(s *domain.ArtifactSummary) ArtifactSummaryResponse {
	return ArtifactSummaryResponse{
		ID:          s.ID,
		Description: s.Description,
		Version:     s.Version,
		User:        s.User,
		ChangedAt:   s.ChangedAt.Format(time.RFC3339),
	}
}

func ToArtifactSummaryResponses(items []*domain.ArtifactSummary) []ArtifactSummaryResponse {
	out := make([]ArtifactSummaryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToArtifactSummaryResponse(it))
	}
	return out
}

func ToVersionResponse(v *domain.Version) VersionResponse {
	return VersionResponse{
		Version:     v.Version,
		Description: v.Description,
		User:        v.User,
		ChangedAt:   v.ChangedAt.Format(time.RFC3339),
	}
}

// ToArtifactResponse exposes only the base name of the stored path.
func ToArtifactResponse(a *domain.Artifact) ArtifactResponse {
	return ArtifactResponse{ID: a.ID, Description: a.Description, Filename: baseName(a.Path)}
}

func ToArtifactDetailResponse(d *services.ArtifactDetail, latest *domain.ArtifactSummary) ArtifactDetailResponse {
	history := make([]VersionResponse, 0, len(d.History))
	for _, v := range d.History {
		history = append(history, ToVersionResponse(v))
	}
	resp := ArtifactDetailResponse{
		ArtifactResponse: ToArtifactResponse(d.Artifact),
		Department:       d.Department,
		CurrentVersion:   d.Current,
		History:          history,
	}
	if latest != nil {
		s := ToArtifactSummaryResponse(latest)
		resp.Latest = &s
	}
	return resp
}

func ToCreateArtifactResponse(a *domain.Artifact, v *domain.Version) CreateArtifactResponse {
	return CreateArtifactResponse{
		ArtifactResponse: ToArtifactResponse(a),
		Version:          v.Version,
		User:             v.User,
		ChangedAt:        v.ChangedAt.Format(time.RFC3339),
	}
}

func ToUpdateArtifactResponse(r *services.UpdateResult) UpdateArtifactResponse {
	return UpdateArtifactResponse{ArtifactResponse: ToArtifactResponse(r.Artifact), Version: r.Version}
}

func ToDeleteArtifactResponse(r *services.DeleteResult) DeleteArtifactResponse {
	return DeleteArtifactResponse{ID: r.ID, Deleted: true, FileRemoved: r.FileRemoved, Warning: r.Warning}
}

// ConfirmDeleteResponse describes what a delete would remove.
type ConfirmDeleteResponse struct {
	ArtifactResponse
	Department     string `json:"department"`
	CurrentVersion int    `json:"current_version"`
	Versions       int    `json:"versions"`
	CanDelete      bool   `json:"can_delete"`
}

func ToConfirmDeleteResponse(d *services.ArtifactDetail, canDelete bool) ConfirmDeleteResponse {
	return ConfirmDeleteResponse{
		ArtifactResponse: ToArtifactResponse(d.Artifact),
		Department:       d.Department,
		CurrentVersion:   d.Current,
		Versions:         len(d.History),
		CanDelete:        canDelete,
	}
}
