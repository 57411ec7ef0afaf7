package test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStorageServer is an in-process, path style S3 endpoint that supports
// the bucket and object calls used by the object page store.
type ObjectStorageServer struct {
	buckets map[string]bool
	mutex   *sync.Mutex
	objects map[string][]byte
	Server  *httptest.Server
}

func NewObjectStorageServer(t testing.TB) *ObjectStorageServer {
	t.Helper()

	s := &ObjectStorageServer{
		buckets: make(map[string]bool),
		mutex:   &sync.Mutex{},
		objects: make(map[string][]byte),
	}

	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))

	t.Cleanup(s.Server.Close)

	return s
}

// Create an S3 client that talks to the server.
func (s *ObjectStorageServer) Client() *s3.Client {
	return s3.New(s3.Options{
		BaseEndpoint: aws.String(s.Server.URL),
		Credentials:  credentials.NewStaticCredentialsProvider("pagedb_test", "pagedb_test", ""),
		Region:       "us-east-1",
		UsePathStyle: true,
	})
}

func (s *ObjectStorageServer) CreateBucket(bucket string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.buckets[bucket] = true
}

func (s *ObjectStorageServer) HasBucket(bucket string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.buckets[bucket]
}

// Return the keys stored in a bucket in lexical order.
func (s *ObjectStorageServer) Keys(bucket string) []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	keys := []string{}

	for key := range s.objects {
		if name, ok := strings.CutPrefix(key, bucket+"/"); ok {
			keys = append(keys, name)
		}
	}

	sort.Strings(keys)

	return keys
}

func (s *ObjectStorageServer) Object(bucket, key string) ([]byte, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, ok := s.objects[bucket+"/"+key]

	return data, ok
}

func (s *ObjectStorageServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	objectKey := bucket + "/" + key

	if key == "" {
		switch r.Method {
		case http.MethodHead:
			if !s.buckets[bucket] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		case http.MethodPut:
			io.Copy(io.Discard, r.Body)
			s.buckets[bucket] = true
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		w.WriteHeader(http.StatusOK)

		return
	}

	switch r.Method {
	case http.MethodPut:
		data, err := io.ReadAll(r.Body)

		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		s.objects[objectKey] = data

		w.Header().Set("ETag", fmt.Sprintf("\"%d\"", len(data)))
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		data, ok := s.objects[objectKey]

		if !ok {
			writeNoSuchKey(w, r, key)
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		w.WriteHeader(http.StatusOK)

		if r.Method == http.MethodGet {
			w.Write(data)
		}
	case http.MethodDelete:
		delete(s.objects, objectKey)

		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeNoSuchKey(w http.ResponseWriter, r *http.Request, key string) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusNotFound)

	fmt.Fprintf(
		w,
		`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>%s</Key><RequestId>pagedb</RequestId></Error>`,
		key,
	)
}
