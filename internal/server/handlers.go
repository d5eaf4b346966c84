package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/codeviz/pkg/buildinfo"
	"github.com/matzehuels/codeviz/pkg/errors"
	"github.com/matzehuels/codeviz/pkg/examples"
	"github.com/matzehuels/codeviz/pkg/render"
	"github.com/matzehuels/codeviz/pkg/source"
	"github.com/matzehuels/codeviz/pkg/store"
)

// maxUploadMemory is the multipart memory buffer; larger parts spill to
// temporary files.
const maxUploadMemory = 1 << 20

type codeRequest struct {
	Code string `json:"code"`
}

type diagramRequest struct {
	Title string `json:"title"`
	Code  string `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(w, r, s.opts.MaxBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	g, hit, err := s.runner.Extract(r.Context(), req.Code, s.pipelineOptions())
	if err != nil {
		writeError(w, err)
		return
	}
	writeGraph(w, g, hit)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.opts.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBytes+requestOverhead)
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		if normalized := normalize(err); errors.GetCode(normalized) != "" {
			writeError(w, normalized)
			return
		}
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid multipart body: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "missing form field \"file\""))
		return
	}
	defer file.Close()

	src, err := source.Read(file, header.Filename, source.LoadOptions{MaxBytes: s.opts.MaxBytes})
	if err != nil {
		writeError(w, err)
		return
	}
	opts := s.pipelineOptions()
	opts.Name = src.Name
	g, hit, err := s.runner.Extract(r.Context(), src.Code, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeGraph(w, g, hit)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	if err := errors.ValidateFormat(format, render.Formats); err != nil {
		writeError(w, err)
		return
	}

	var req codeRequest
	if err := decodeJSON(w, r, s.opts.MaxBytes, &req); err != nil {
		writeError(w, err)
		return
	}

	opts := s.pipelineOptions()
	opts.Formats = []string{format}
	opts.Detailed = queryBool(r, "detailed")
	opts.Free = queryBool(r, "free")

	res, err := s.runner.Execute(r.Context(), req.Code, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.ExtractHit && res.CacheInfo.RenderHit))
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleListExamples(w http.ResponseWriter, r *http.Request) {
	all := examples.All()
	for i := range all {
		all[i].Source = ""
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetExample(w http.ResponseWriter, r *http.Request) {
	ex, err := examples.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleExampleGraph(w http.ResponseWriter, r *http.Request) {
	ex, err := examples.Get(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts := s.pipelineOptions()
	opts.Name = ex.Filename
	g, hit, err := s.runner.Extract(r.Context(), ex.Source, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeGraph(w, g, hit)
}

func (s *Server) handleSaveDiagram(w http.ResponseWriter, r *http.Request) {
	var req diagramRequest
	if err := decodeJSON(w, r, s.opts.MaxBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateTitle(req.Title); err != nil {
		writeError(w, err)
		return
	}
	g, _, err := s.runner.Extract(r.Context(), req.Code, s.pipelineOptions())
	if err != nil {
		writeError(w, err)
		return
	}

	d := store.NewDiagram(req.Title, req.Code, g)
	if err := s.store.Save(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/diagrams/"+d.ID)
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		writeError(w, errNotFound("diagram not found"))
		return
	}
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		writeError(w, errNotFound("diagram not found"))
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}
