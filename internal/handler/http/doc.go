// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http is the REST and websocket transport of the reference sync
// server.
//
// Entity routes carry raw JSON so one server serves every entity kind. The
// realtime route upgrades to a websocket, greets the client with a hello
// frame naming its session and then forwards hub messages; subscriptions
// for that session are managed over plain HTTP.
package http
