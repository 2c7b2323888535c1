package client

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/talvi/pulsemagstep/pkg/calibration"
	"github.com/talvi/pulsemagstep/pkg/config"
	"github.com/talvi/pulsemagstep/pkg/interp"
	"github.com/talvi/pulsemagstep/pkg/server"
)

// GetSteps asks the service for a step table.
func (c *Client) GetSteps(req server.StepsRequest) ([]interp.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	ret, err := c.Post("/steps", string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get steps")
	}

	var results []interp.Result
	if err := json.Unmarshal([]byte(ret), &results); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal steps")
	}
	return results, nil
}

func (c *Client) GetCalibration() (calibration.Table, error) {
	ret, err := c.Get("/calibration")
	if err != nil {
		return calibration.Table{}, pkgerrors.Wrapf(err, "failed to get calibration")
	}

	var table calibration.Table
	if err := json.Unmarshal([]byte(ret), &table); err != nil {
		return calibration.Table{}, pkgerrors.Wrapf(err, "failed to unmarshal calibration")
	}
	return table, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}
