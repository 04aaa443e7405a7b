/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package validator provides the top-level entry point for validating and
// expanding a set of user-supplied configuration values against a schema.
//
// # Overview
//
// A Driver ties together the schema model (pkg/schema), the dependency
// expander (pkg/expand), and the datatype checks (pkg/datatype) into a
// single Validate call that produces an outcome.Map: one tagged result per
// property name, ordered deterministically and projected for a specific
// role and file target.
//
// # Usage
//
//	sch, err := schema.LoadFile("schema.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d := validator.New(validator.WithVersion("1.4.0"))
//	result, err := d.Validate(sch, validator.Request{
//	    ProductVersion: version.MustParse("2.1.0"),
//	    Role:           "worker",
//	    FileTarget:     "log4j.properties",
//	    UserValues: []expand.UserValue{
//	        {Name: "log.level", Value: "DEBUG"},
//	    },
//	})
//
// # Status determination
//
// Every projected property name is tagged with exactly one Status
// (Valid/Default/RecommendedDefault/Warn/Error), plus an independent Hidden
// flag for no_copy suppression. A property with no effective value that is
// required for the requested role first falls back to its recommendation
// (tagged RecommendedDefault) before being reported as MissingRequired.
//
// Validate takes no context.Context: the whole call is synchronous,
// in-memory, and has no cancellable I/O — there is nothing to cancel.
package validator
