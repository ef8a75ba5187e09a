// Package mongo runs collection operations over the MongoDB wire protocol with
// go.mongodb.org/mongo-driver. The credential endpoint is the connection URI and
// the application token, when present, is the password of user "token".
package mongo
