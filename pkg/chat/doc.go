// Package chat drives the model/tool round-trip loop: it invokes the
// language model with the conversation so far, executes any tool calls the
// model issues, feeds the results back, and repeats until the model returns
// a plain answer or the round cap is hit.
package chat
