package stream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

func TestShouldReceiveNoFilters(t *testing.T) {
	c := &Client{}
	msg := &Message{Type: "decision", Class: "CORE", League: "premier_league"}

	assert.True(t, c.shouldReceive(msg))
}

func TestShouldReceiveClassFilter(t *testing.T) {
	c := &Client{classes: map[string]bool{"CORE": true}}

	assert.True(t, c.shouldReceive(&Message{Class: "CORE"}))
	assert.False(t, c.shouldReceive(&Message{Class: "EXP"}))
}

func TestShouldReceiveLeagueFilter(t *testing.T) {
	c := &Client{leagues: map[string]bool{"la_liga": true}}

	assert.True(t, c.shouldReceive(&Message{League: "la_liga"}))
	assert.False(t, c.shouldReceive(&Message{League: "premier_league"}))
}

func TestShouldReceiveCombinedFilters(t *testing.T) {
	c := &Client{
		classes: map[string]bool{"CORE": true},
		leagues: map[string]bool{"premier_league": true},
	}

	assert.True(t, c.shouldReceive(&Message{Class: "CORE", League: "premier_league"}))
	assert.False(t, c.shouldReceive(&Message{Class: "CORE", League: "la_liga"}))
	assert.False(t, c.shouldReceive(&Message{Class: "EXP", League: "premier_league"}))
}

func TestHandleMessageSubscribe(t *testing.T) {
	c := &Client{hub: NewHub(nil)}

	c.handleMessage([]byte(`{"type":"subscribe","classes":["CORE","FLIP"],"leagues":["premier_league"]}`))

	assert.True(t, c.classes["CORE"])
	assert.True(t, c.classes["FLIP"])
	assert.False(t, c.classes["EXP"])
	assert.True(t, c.leagues["premier_league"])
}

func TestHandleMessageUnsubscribe(t *testing.T) {
	c := &Client{
		hub:     NewHub(nil),
		classes: map[string]bool{"CORE": true},
	}

	c.handleMessage([]byte(`{"type":"unsubscribe"}`))

	assert.Nil(t, c.classes)
	assert.Nil(t, c.leagues)
}

func TestMarshalMessage(t *testing.T) {
	msg := &Message{
		Type:   "decision",
		Class:  "CORE",
		League: "premier_league",
		Decision: &models.Decision{
			Class:    models.DecisionCore,
			FairLine: -0.75,
		},
	}

	payload := marshalMessage(msg)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "decision", decoded["type"])
	assert.Equal(t, "CORE", decoded["class"])
}
