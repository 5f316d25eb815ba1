/*
Package metrics submits named, dimensioned data points to a metrics backend.

Every backend implements Emitter. One Emit call is one data point under the
backend's fixed namespace; nothing is retried or buffered, and a failure is
returned to the caller to log. Open builds the backends listed in the
configuration and combines them with Fanout.
*/
package metrics
