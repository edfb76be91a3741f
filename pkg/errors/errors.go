/*
 * Copyright (C) 2025-2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package errors

import (
	"fmt"
	"net/http"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Error code strings carried in API error responses. They mirror the
// StatusReason of the underlying status error so callers can switch on them.
const (
	BadRequest    = string(metav1.StatusReasonBadRequest)
	NotFound      = string(metav1.StatusReasonNotFound)
	AlreadyExist  = string(metav1.StatusReasonAlreadyExists)
	Forbidden     = string(metav1.StatusReasonForbidden)
	Unauthorized  = string(metav1.StatusReasonUnauthorized)
	Conflict      = string(metav1.StatusReasonConflict)
	InternalError = string(metav1.StatusReasonInternalError)
)

// NewBadRequest returns a 400 error with the given message.
func NewBadRequest(msg string) *apierrors.StatusError {
	return apierrors.NewBadRequest(msg)
}

// NewNotFound returns a 404 error for the named resource of the given kind.
func NewNotFound(kind, name string) *apierrors.StatusError {
	return apierrors.NewNotFound(schema.GroupResource{Resource: kind}, name)
}

// NewNotFoundWithMessage returns a 404 error carrying a free-form message.
func NewNotFoundWithMessage(msg string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusNotFound,
		Reason:  metav1.StatusReasonNotFound,
		Message: msg,
	}}
}

// NewAlreadyExist returns a 409 already-exists error with the given message.
func NewAlreadyExist(msg string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusConflict,
		Reason:  metav1.StatusReasonAlreadyExists,
		Message: msg,
	}}
}

// NewConflict returns a 409 conflict error for the named resource.
func NewConflict(kind, name string, err error) *apierrors.StatusError {
	return apierrors.NewConflict(schema.GroupResource{Resource: kind}, name, err)
}

// NewForbidden returns a 403 error with the given message.
func NewForbidden(msg string) *apierrors.StatusError {
	return &apierrors.StatusError{ErrStatus: metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    http.StatusForbidden,
		Reason:  metav1.StatusReasonForbidden,
		Message: msg,
	}}
}

// NewUnauthorized returns a 401 error with the given message.
func NewUnauthorized(msg string) *apierrors.StatusError {
	return apierrors.NewUnauthorized(msg)
}

// NewRequestEntityTooLargeError returns a 413 error with the given message.
func NewRequestEntityTooLargeError(msg string) *apierrors.StatusError {
	return apierrors.NewRequestEntityTooLargeError(msg)
}

// NewInternalError returns a 500 error with the given message.
func NewInternalError(msg string) *apierrors.StatusError {
	return apierrors.NewInternalError(fmt.Errorf("%s", msg))
}
