package service

import (
	"context"

	"evidence-engine-be/internal/dto"
	"evidence-engine-be/pkg/citation"
)

type ICitationService interface {
	BuildPack(ctx context.Context, req *dto.BuildPackRequest) (*dto.BuildPackResponse, error)
	EnforceGrounding(ctx context.Context, req *dto.EnforceGroundingRequest) (*dto.EnforceGroundingResponse, error)
}

type citationService struct{}

func NewCitationService() ICitationService {
	return &citationService{}
}

func (s *citationService) BuildPack(ctx context.Context, req *dto.BuildPackRequest) (*dto.BuildPackResponse, error) {
	pack := citation.BuildPack(toEvidence(req.Evidence))

	entries := make([]dto.PackEntryResponse, len(pack.Entries))
	for i, e := range pack.Entries {
		entries[i] = dto.PackEntryResponse{
			Index:       e.Index,
			Title:       e.Title,
			URL:         e.URL,
			SourceRef:   e.SourceRef,
			Excerpt:     e.Excerpt,
			Fingerprint: e.Fingerprint,
		}
	}

	return &dto.BuildPackResponse{
		PromptBlock:     pack.PromptBlock,
		SourcesMarkdown: pack.SourcesMarkdown,
		Entries:         entries,
	}, nil
}

func (s *citationService) EnforceGrounding(ctx context.Context, req *dto.EnforceGroundingRequest) (*dto.EnforceGroundingResponse, error) {
	pack := citation.BuildPack(toEvidence(req.Entries))

	patched := citation.EnforceGrounding(req.Text, pack.Entries)

	return &dto.EnforceGroundingResponse{
		Text:    patched,
		Patched: patched != req.Text,
	}, nil
}

func toEvidence(inputs []dto.EvidenceInput) []citation.Evidence {
	evidence := make([]citation.Evidence, len(inputs))
	for i, in := range inputs {
		evidence[i] = citation.Evidence{
			Excerpt:   in.Excerpt,
			SourceRef: in.SourceRef,
			Title:     in.Title,
			URL:       in.URL,
		}
	}
	return evidence
}
