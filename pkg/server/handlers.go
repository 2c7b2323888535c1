package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/talvi/pulsemagstep/pkg/config"
	"github.com/talvi/pulsemagstep/pkg/fields"
	"github.com/talvi/pulsemagstep/pkg/interp"
	"github.com/talvi/pulsemagstep/pkg/utils/ptr"
	"github.com/talvi/pulsemagstep/pkg/version"
)

// StepsRequest asks for a step table. Nil fields use the server's config.
type StepsRequest struct {
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Steps        *int     `json:"steps,omitempty"`
	Distribution *string  `json:"distribution,omitempty"`
	Technique    *string  `json:"technique,omitempty"`
}

func (s *Server) getCalibration(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.table)
}

func (s *Server) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(s.conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (s *Server) postSteps(c *gin.Context) {
	var req StepsRequest
	if err := c.BindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	results, err := s.steps(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fields.ErrInvalidSampling) ||
			errors.Is(err, fields.ErrUnknownDistribution) ||
			errors.Is(err, interp.ErrUnknownTechnique) {
			status = http.StatusBadRequest
		}
		c.IndentedJSON(status, err.Error())
		_ = c.AbortWithError(status, err)
		return
	}

	logrus.Debugf("computed %d steps", len(results))

	c.IndentedJSON(http.StatusOK, results)
}

func (s *Server) steps(req StepsRequest) ([]interp.Result, error) {
	lo := ptr.Deref(req.Min, s.conf.MinField())
	hi := ptr.Deref(req.Max, s.conf.MaxField())
	n := ptr.Deref(req.Steps, s.conf.Steps())
	distName := ptr.Deref(req.Distribution, s.conf.Distribution())
	techName := ptr.Deref(req.Technique, s.conf.Technique())

	dist, err := fields.ParseDistribution(distName)
	if err != nil {
		return nil, err
	}
	technique, err := interp.ParseTechnique(techName)
	if err != nil {
		return nil, err
	}
	targets, err := fields.Generate(lo, hi, n, dist)
	if err != nil {
		return nil, err
	}
	return interp.Interpolate(targets, technique, s.table)
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
