package httpapi

import (
	"net/http"

	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/usecase/volumerecord"
)

func (s *Server) recordList(w http.ResponseWriter, r *http.Request) error {
	page, err := pageRequest(r)
	if err != nil {
		return err
	}
	out, err := s.Records.Search(r.Context(), &volumerecord.SearchInput{
		VolumeName: r.URL.Query().Get("volumeName"),
		Page:       page,
	})
	if err != nil {
		return err
	}
	writeOK(w, out.Page)
	return nil
}

func (s *Server) recordDetail(w http.ResponseWriter, r *http.Request) error {
	out, err := s.Records.Get(r.Context(), &volumerecord.GetInput{ID: r.PathValue("id")})
	if err != nil {
		return err
	}
	writeOK(w, out.Record)
	return nil
}

func (s *Server) recordCreate(w http.ResponseWriter, r *http.Request) error {
	var in volumerecord.CreateInput
	if err := decodeBody(w, r, &in, false); err != nil {
		return err
	}
	in.Operator = operator(r)
	if _, err := s.Records.Create(r.Context(), &in); err != nil {
		return err
	}
	writeOK(w, true)
	return nil
}

func (s *Server) recordUpdate(w http.ResponseWriter, r *http.Request) error {
	var in volumerecord.UpdateInput
	if err := decodeBody(w, r, &in, false); err != nil {
		return err
	}
	in.Operator = operator(r)
	if _, err := s.Records.Update(r.Context(), &in); err != nil {
		return err
	}
	writeOK(w, true)
	return nil
}

func (s *Server) recordBatchDelete(w http.ResponseWriter, r *http.Request) error {
	out, err := s.Records.BatchDelete(r.Context(), &volumerecord.BatchDeleteInput{
		IDs:      model.ParseIDs(r.PathValue("ids")),
		Operator: operator(r),
	})
	if err != nil {
		return err
	}
	s.Metrics.countBatch("volumeRecord", len(out.Result.Succeeded), len(out.Result.Failed))
	writeBatch(w, out.Result)
	return nil
}

func (s *Server) recordRestore(w http.ResponseWriter, r *http.Request) error {
	var in volumerecord.RestoreInput
	if err := decodeBody(w, r, &in, true); err != nil {
		return err
	}
	in.ID = r.PathValue("id")
	in.Operator = operator(r)
	if _, err := s.Records.Restore(r.Context(), &in); err != nil {
		return err
	}
	writeOK(w, true)
	return nil
}
