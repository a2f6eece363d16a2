package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/mlflow-track/internal/mlflow"
	"github.com/imishinist/mlflow-track/internal/models"
)

func TestParseKeyValues(t *testing.T) {
	pairs, err := parseKeyValues("parameter", []string{"lr=0.01", "expr=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, models.Pairs{
		{Key: "lr", Value: "0.01"},
		{Key: "expr", Value: "a=b"},
		{Key: "empty", Value: ""},
	}, pairs)

	_, err = parseKeyValues("tag", []string{"novalue"})
	assert.ErrorContains(t, err, "invalid tag format: novalue")

	_, err = parseKeyValues("tag", []string{"=v"})
	assert.Error(t, err)
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &reporter{out: &buf}

	r.check("log parameter", http.StatusOK, nil)
	r.check("set tag", mlflow.StatusNoOp, nil)
	assert.NoError(t, r.err())

	r.check("log metric", http.StatusBadRequest, nil)
	r.check("log batch", 0, errors.New("connection refused"))

	assert.Equal(t, "Successfully logged parameter.\n"+
		"Nothing to set tag.\n"+
		"Failed to log metric: status 400\n"+
		"Failed to log batch: connection refused\n", buf.String())
	assert.EqualError(t, r.err(), "2 of 4 calls failed")
}

func TestPastTense(t *testing.T) {
	assert.Equal(t, "logged parameter alpha", pastTense("log parameter alpha"))
	assert.Equal(t, "set tag", pastTense("set tag"))
	assert.Equal(t, "logged", pastTense("log"))
}

func TestPrintOutput(t *testing.T) {
	newCmd := func(format string) (*cobra.Command, *bytes.Buffer) {
		c := &cobra.Command{}
		c.Flags().String("format", format, "")
		var buf bytes.Buffer
		c.SetOut(&buf)
		return c, &buf
	}
	v := &models.ExperimentInfo{ExperimentID: "1", Name: "demo"}

	c, buf := newCmd("json")
	require.NoError(t, printOutput(c, v))
	assert.JSONEq(t, `{"experiment_id": "1", "name": "demo"}`, buf.String())

	c, buf = newCmd("yaml")
	require.NoError(t, printOutput(c, v))
	assert.YAMLEq(t, "experiment_id: \"1\"\nname: demo\n", buf.String())

	c, _ = newCmd("xml")
	assert.ErrorContains(t, printOutput(c, v), "invalid format")
}
