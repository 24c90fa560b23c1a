package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/usecase/volume"
)

func (s *Server) volumeList(w http.ResponseWriter, r *http.Request) error {
	page, err := pageRequest(r)
	if err != nil {
		return err
	}
	q := r.URL.Query()
	out, err := s.Volumes.Search(r.Context(), &volume.SearchInput{
		Name:     q.Get("name"),
		Alias:    q.Get("alias"),
		Username: q.Get("username"),
		Page:     page,
	})
	if err != nil {
		return err
	}
	writeOK(w, out.Page)
	return nil
}

func (s *Server) volumeDetail(w http.ResponseWriter, r *http.Request) error {
	out, err := s.Volumes.Get(r.Context(), &volume.GetInput{Name: r.PathValue("name")})
	if err != nil {
		return err
	}
	writeOK(w, out.Volume)
	return nil
}

func (s *Server) volumeCreate(w http.ResponseWriter, r *http.Request) error {
	var in volume.CreateInput
	if err := decodeBody(w, r, &in, false); err != nil {
		return err
	}
	in.Operator = operator(r)
	if _, err := s.Volumes.Create(r.Context(), &in); err != nil {
		return err
	}
	writeOK(w, true)
	return nil
}

func (s *Server) volumeUpdate(w http.ResponseWriter, r *http.Request) error {
	var in volume.UpdateInput
	if err := decodeBody(w, r, &in, false); err != nil {
		return err
	}
	in.Operator = operator(r)
	if _, err := s.Volumes.Update(r.Context(), &in); err != nil {
		return err
	}
	writeOK(w, true)
	return nil
}

func (s *Server) volumeBatchDelete(w http.ResponseWriter, r *http.Request) error {
	in := &volume.BatchDeleteInput{IDs: model.ParseIDs(r.PathValue("ids")), Operator: operator(r)}
	if v := r.URL.Query().Get("purge"); v != "" {
		purge, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: purge must be a boolean, got %q", model.ErrVolumeInvalid, v)
		}
		in.Purge = purge
	}
	out, err := s.Volumes.BatchDelete(r.Context(), in)
	if err != nil {
		return err
	}
	s.Metrics.countBatch("volume", len(out.Result.Succeeded), len(out.Result.Failed))
	writeBatch(w, out.Result)
	return nil
}
