package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uhyunpark/orderdb/params"
	"github.com/uhyunpark/orderdb/pkg/app/manager"
)

func TestReport(t *testing.T) {
	cfg := params.Default()
	cfg.Book.Capacity = 16
	m := manager.New(cfg, nil)
	for _, r := range []string{
		"09:00:00.000000;DVAM1;1;I;BUY;72;36.30",
		"09:00:01.000000;DVAM1;2;I;BUY;15;36.10",
		"09:00:02.000000;DVAM1;3;I;SELL;10;40.00",
		"09:00:03.000000;TEST0;4;I;SELL;1;1.00",
	} {
		m.Execute(r)
	}

	var out bytes.Buffer
	report(&out, m, cfg.Query)

	assert.Equal(t, "Orders count :\n"+
		"DVAM1\t3\n"+
		"TEST0\t1\n"+
		"Biggest buy orders for symbol \"DVAM1\" :\n72\t15\n"+
		"Best sell price at time 15:30:00 for symbol DVAM1 is {40.00} and its volume is {10}\n",
		out.String())
}

func TestReport_NothingFound(t *testing.T) {
	cfg := params.Default()
	cfg.Book.Capacity = 16
	m := manager.New(cfg, nil)

	var out bytes.Buffer
	report(&out, m, cfg.Query)

	assert.Equal(t, "Orders count :\n"+
		"Biggest buy orders for symbol \"DVAM1\" :\n\n"+
		"Best sell price at time 15:30:00 for symbol DVAM1 not found\n",
		out.String())
}
