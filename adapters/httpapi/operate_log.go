package httpapi

import (
	"net/http"

	"github.com/kompox/volsaga/domain/model"
	"github.com/kompox/volsaga/usecase/operatelog"
)

func (s *Server) operateLogList(w http.ResponseWriter, r *http.Request) error {
	page, err := pageRequest(r)
	if err != nil {
		return err
	}
	q := r.URL.Query()
	out, err := s.OperateLog.Search(r.Context(), &operatelog.SearchInput{
		SagaName:   q.Get("sagaName"),
		SagaStatus: q.Get("sagaStatus"),
		Page:       page,
	})
	if err != nil {
		return err
	}
	writeOK(w, out.Page)
	return nil
}

func (s *Server) operateLogDetail(w http.ResponseWriter, r *http.Request) error {
	out, err := s.OperateLog.Get(r.Context(), &operatelog.GetInput{SagaOperateID: r.PathValue("id")})
	if err != nil {
		return err
	}
	writeOK(w, out.Log)
	return nil
}

func (s *Server) operateLogCreate(w http.ResponseWriter, r *http.Request) error {
	var in operatelog.CreateInput
	if err := decodeBody(w, r, &in, false); err != nil {
		return err
	}
	in.Operator = operator(r)
	if _, err := s.OperateLog.Create(r.Context(), &in); err != nil {
		return err
	}
	writeOK(w, true)
	return nil
}

func (s *Server) operateLogUpdate(w http.ResponseWriter, r *http.Request) error {
	var in operatelog.UpdateInput
	if err := decodeBody(w, r, &in, false); err != nil {
		return err
	}
	in.Operator = operator(r)
	if _, err := s.OperateLog.Update(r.Context(), &in); err != nil {
		return err
	}
	writeOK(w, true)
	return nil
}

func (s *Server) operateLogBatchDelete(w http.ResponseWriter, r *http.Request) error {
	out, err := s.OperateLog.BatchDelete(r.Context(), &operatelog.BatchDeleteInput{
		IDs:      model.ParseIDs(r.PathValue("ids")),
		Operator: operator(r),
	})
	if err != nil {
		return err
	}
	s.Metrics.countBatch("operateLog", len(out.Result.Succeeded), len(out.Result.Failed))
	writeBatch(w, out.Result)
	return nil
}
