// Package model contains the data models shared by the release pipeline.
package model
