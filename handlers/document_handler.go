package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"lms-backoffice/helper"
	"lms-backoffice/models"
	"lms-backoffice/services"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService services.DocumentService
	Helper          *helper.HTTPHelper
}

func NewDocumentHandler(documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		Helper:          &helper.HTTPHelper{},
	}
}

func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var req models.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	document, err := h.documentService.CreateDocument(req, userID.(uint))
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, document)
}

func (h *DocumentHandler) GetDocuments(c *gin.Context) {
	h.listDocuments(c, false)
}

func (h *DocumentHandler) GetPublicDocuments(c *gin.Context) {
	h.listDocuments(c, true)
}

func (h *DocumentHandler) listDocuments(c *gin.Context, publicOnly bool) {
	var params models.DocumentListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if params.Page == 0 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = 10
	}

	documents, total, err := h.documentService.GetDocuments(params, publicOnly)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"paging":    h.Helper.GeneratePaging(c, params.Limit, params.Page, int(total)),
	})
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	document, err := h.documentService.GetDocument(id, false)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, document)
}

func (h *DocumentHandler) GetPublicDocument(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	document, err := h.documentService.GetDocument(id, true)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, document)
}

func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	document, err := h.documentService.UpdateDocument(id, req, userID.(uint))
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, document)
}

func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	document, err := h.documentService.ChangeStatus(id, req.Action, userID.(uint))
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, document)
}

func (h *DocumentHandler) DuplicateDocument(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	document, err := h.documentService.DuplicateDocument(id, userID.(uint))
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, document)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(id); err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Document deleted successfully", h.Helper.EmptyJsonMap())
}

func (h *DocumentHandler) GetVersions(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	versions, err := h.documentService.GetVersions(id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, versions)
}

func (h *DocumentHandler) GetVersion(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	versionID, ok := h.paramID(c, "version_id")
	if !ok {
		return
	}

	version, err := h.documentService.GetVersion(id, versionID)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, version)
}

func (h *DocumentHandler) DeleteVersion(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	versionID, ok := h.paramID(c, "version_id")
	if !ok {
		return
	}

	if err := h.documentService.DeleteVersion(id, versionID); err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Version deleted successfully", h.Helper.EmptyJsonMap())
}

func (h *DocumentHandler) RollbackVersion(c *gin.Context) {
	userID, _ := c.Get("user_id")
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	versionID, ok := h.paramID(c, "version_id")
	if !ok {
		return
	}

	version, err := h.documentService.Rollback(id, versionID, userID.(uint))
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, version)
}

func (h *DocumentHandler) VerifyVersion(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	versionID, ok := h.paramID(c, "version_id")
	if !ok {
		return
	}

	report, err := h.documentService.VerifyVersion(id, versionID)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *DocumentHandler) CompareVersions(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	from, err := strconv.ParseUint(c.Query("from"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid 'from' version ID", h.Helper.EmptyJsonMap())
		return
	}
	to, err := strconv.ParseUint(c.Query("to"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid 'to' version ID", h.Helper.EmptyJsonMap())
		return
	}

	comparison, err := h.documentService.Compare(id, uint(from), uint(to))
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// ExportDocument streams the version history as a JSON attachment.
func (h *DocumentHandler) ExportDocument(c *gin.Context) {
	id, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	export, err := h.documentService.Export(id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-history.json"`, export.Slug))
	c.JSON(http.StatusOK, export)
}

func (h *DocumentHandler) paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, fmt.Sprintf("Invalid %s", name), h.Helper.EmptyJsonMap())
		return 0, false
	}
	return uint(id), true
}
