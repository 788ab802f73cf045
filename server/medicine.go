package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teodorv/medcycle/llm"
)

// MedicineInfo is the structured medicine lookup payload. The completion
// is constrained to this shape via a generated JSON schema.
type MedicineInfo struct {
	Name             string   `json:"name"`
	GenericName      string   `json:"generic_name"`
	Category         string   `json:"category"`
	CommonUses       []string `json:"common_uses"`
	StorageGuidance  string   `json:"storage_guidance"`
	DisposalGuidance string   `json:"disposal_guidance"`
	Warnings         []string `json:"warnings"`
}

var medicineTemplate = llm.NewPromptTemplate("medicine-info", `Provide factual reference information about the medicine "{{.Name}}".
Cover its generic name, category, common uses, storage guidance, disposal guidance, and safety warnings.
If the name is ambiguous or not a real medicine, say so in the warnings and keep the other fields general.`)

type medicineInfoRequest struct {
	Name string `json:"name" binding:"required"`
}

// handleMedicineInfo looks up structured medicine information through the
// completion client. Results are cached by normalized name for the cache
// TTL; failures after retries and malformed responses degrade to the
// static fallback payload.
func (s *Server) handleMedicineInfo(c *gin.Context) {
	var req medicineInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	ctx := c.Request.Context()
	cached, err := s.medicineCache.GetOrFill(req.Name, func() (any, error) {
		prompt, err := medicineTemplate.Execute(map[string]any{"Name": req.Name})
		if err != nil {
			return nil, err
		}

		schema, err := llm.GenerateJSONSchema(&MedicineInfo{})
		if err != nil {
			return nil, err
		}

		response, err := s.llm.GenerateWithSchema(ctx, prompt, schema)
		if err != nil {
			return nil, err
		}

		var info MedicineInfo
		if err := llm.ParseStructured(response, &info); err != nil {
			return nil, err
		}
		return info, nil
	})
	if err != nil {
		s.logger.Warn("medicine lookup failed, serving fallback", "name", req.Name, "error", err)
		c.JSON(http.StatusOK, gin.H{"medicine": fallbackMedicineInfo(req.Name), "source": "fallback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"medicine": cached.(MedicineInfo), "source": "llm"})
}
