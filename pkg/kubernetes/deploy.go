/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package kubernetes

import (
	"context"
	"fmt"
	"reflect"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/klog/v2"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	commonbackoff "github.com/AMD-AIG-AIMA/falconeri/pkg/backoff"
)

// Apply creates the object, or replaces the live copy when one already
// exists. Objects carry their own namespace, so a deploy can target a
// namespace other than the client's default.
func (c *Client) Apply(ctx context.Context, obj ctrlclient.Object) error {
	kind := c.objectKind(obj)
	existing := newEmptyObject(obj)
	err := c.ctrlClient.Get(ctx, ctrlclient.ObjectKeyFromObject(obj), existing)
	if apierrors.IsNotFound(err) {
		if err := c.ctrlClient.Create(ctx, obj); err != nil {
			return fmt.Errorf("failed to create %s %s/%s: %w", kind, obj.GetNamespace(), obj.GetName(), err)
		}
		klog.Infof("created %s %s/%s", kind, obj.GetNamespace(), obj.GetName())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get %s %s/%s: %w", kind, obj.GetNamespace(), obj.GetName(), err)
	}

	// A concurrent writer between the read and the update surfaces as a
	// conflict; re-read for a fresh ResourceVersion and try again.
	update := func() error {
		existing := newEmptyObject(obj)
		if err := c.ctrlClient.Get(ctx, ctrlclient.ObjectKeyFromObject(obj), existing); err != nil {
			return err
		}
		obj.SetResourceVersion(existing.GetResourceVersion())
		// ClusterIP is immutable and assigned by the API server; carry it over so
		// a replacement of an existing Service is accepted.
		if desired, ok := obj.(*corev1.Service); ok {
			desired.Spec.ClusterIP = existing.(*corev1.Service).Spec.ClusterIP
		}
		return c.ctrlClient.Update(ctx, obj)
	}
	if err := commonbackoff.ConflictRetry(update, 3, time.Second); err != nil {
		return fmt.Errorf("failed to update %s %s/%s: %w", kind, obj.GetNamespace(), obj.GetName(), err)
	}
	klog.Infof("configured %s %s/%s", kind, obj.GetNamespace(), obj.GetName())
	return nil
}

// DeleteObject removes the object. Deleting an object that does not exist is
// not an error.
func (c *Client) DeleteObject(ctx context.Context, obj ctrlclient.Object) error {
	kind := c.objectKind(obj)
	err := c.ctrlClient.Delete(ctx, obj)
	if apierrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s %s/%s: %w", kind, obj.GetNamespace(), obj.GetName(), err)
	}
	klog.Infof("deleted %s %s/%s", kind, obj.GetNamespace(), obj.GetName())
	return nil
}

// ResourceExists reports whether the named object exists. The passed object
// only needs its name and namespace set.
func (c *Client) ResourceExists(ctx context.Context, obj ctrlclient.Object) (bool, error) {
	err := c.ctrlClient.Get(ctx, ctrlclient.ObjectKeyFromObject(obj), newEmptyObject(obj))
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s %s/%s: %w",
			c.objectKind(obj), obj.GetNamespace(), obj.GetName(), err)
	}
	return true, nil
}

// newEmptyObject allocates a zero value of the same concrete type, used as a
// Get destination so stale fields from the desired object never leak in.
func newEmptyObject(obj ctrlclient.Object) ctrlclient.Object {
	return reflect.New(reflect.TypeOf(obj).Elem()).Interface().(ctrlclient.Object)
}

// objectKind resolves the kind for log lines, falling back to the scheme for
// objects that carry no TypeMeta.
func (c *Client) objectKind(obj ctrlclient.Object) string {
	if kind := obj.GetObjectKind().GroupVersionKind().Kind; kind != "" {
		return kind
	}
	if gvks, _, err := c.ctrlClient.Scheme().ObjectKinds(obj); err == nil && len(gvks) > 0 {
		return gvks[0].Kind
	}
	return fmt.Sprintf("%T", obj)
}
