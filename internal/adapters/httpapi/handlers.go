package httpapi

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

const maxBodyBytes = 1 << 20

type statusResponse struct {
	Account   string                       `json:"account"`
	Now       int64                        `json:"now"`
	Verified  bool                         `json:"verified"`
	Providers []domain.ProviderStatus      `json:"providers"`
	Pending   []domain.PendingVerification `json:"pending"`
}

type rawActionResponse struct {
	To    string        `json:"to"`
	Value *big.Int      `json:"value"`
	Data  hexutil.Bytes `json:"data"`
}

type encodeResponse struct {
	Actions      []rawActionResponse    `json:"actions"`
	Descriptions []*actions.Description `json:"descriptions"`
}

type proposalActionResponse struct {
	rawActionResponse
	Description *actions.Description `json:"description,omitempty"`
	Error       string               `json:"error,omitempty"`
}

type proposalResponse struct {
	ID        uint64                   `json:"id"`
	Open      bool                     `json:"open"`
	Executed  bool                     `json:"executed"`
	StartDate time.Time                `json:"startDate"`
	EndDate   time.Time                `json:"endDate"`
	Tally     domain.Tally             `json:"tally"`
	Metadata  domain.ProposalMetadata  `json:"metadata"`
	Actions   []proposalActionResponse `json:"actions"`
}

func (s *Server) handleVerificationStatus(c *gin.Context) {
	raw := c.Param("address")
	if !common.IsHexAddress(raw) {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ADDRESS", "address must be a 0x-prefixed hex address")
		return
	}
	result, err := s.deps.Status.Run(c.Request.Context(), common.HexToAddress(raw))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{
		Account:   result.Account.Hex(),
		Now:       result.Now.Unix(),
		Verified:  result.Verified(),
		Providers: nonNil(result.Providers),
		Pending:   nonNil(result.Pending),
	})
}

func (s *Server) handleListActions(c *gin.Context) {
	type actionInfo struct {
		Name        domain.ActionName `json:"name"`
		DisplayName string            `json:"displayName"`
		Template    string            `json:"template"`
	}
	var out []actionInfo
	for _, name := range s.deps.Registry.Names() {
		tmpl, err := actions.Template(s.deps.Registry, name)
		if err != nil {
			writeError(c, err)
			return
		}
		out = append(out, actionInfo{Name: name, DisplayName: actions.DisplayName(name), Template: tmpl})
	}
	c.JSON(http.StatusOK, gin.H{"actions": out})
}

func (s *Server) handleEncode(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorCode(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE",
				fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes))
			return
		}
		writeErrorCode(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	list, err := actions.ParseActionList(body, s.deps.Registry)
	if err != nil {
		writeError(c, err)
		return
	}
	encoded, err := s.deps.Encoder.Encode(c.Request.Context(), list)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := encodeResponse{Descriptions: encoded.Descriptions}
	for _, raw := range encoded.Raw {
		resp.Actions = append(resp.Actions, toRawAction(raw))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetProposal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ID", "proposal id must be a non-negative integer")
		return
	}
	view, err := s.deps.Proposals.Run(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProposal(view))
}

func (s *Server) handleListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": nonNil(s.deps.Notifications.List())})
}

func (s *Server) handleDismissNotification(c *gin.Context) {
	s.deps.Notifications.Dismiss(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func toRawAction(raw domain.RawAction) rawActionResponse {
	value := raw.Value
	if value == nil {
		value = new(big.Int)
	}
	return rawActionResponse{To: raw.To.Hex(), Value: value, Data: raw.Data}
}

func toProposal(view *usecase.ProposalView) proposalResponse {
	p := view.Proposal
	resp := proposalResponse{
		ID:        p.ID,
		Open:      p.Open,
		Executed:  p.Executed,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Tally:     p.Tally,
		Metadata:  p.Metadata,
		Actions:   make([]proposalActionResponse, len(view.Actions)),
	}
	for i, a := range view.Actions {
		resp.Actions[i] = proposalActionResponse{rawActionResponse: toRawAction(a.Raw), Description: a.Description}
		if a.Err != nil {
			resp.Actions[i].Error = a.Err.Error()
		}
	}
	return resp
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
