package db

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JossueGallardo/Pronaca-EmbuticionTR/internal/models"
)

// CachedValue representa un valor en cache con metadatos
type CachedValue struct {
	Value     interface{}
	Timestamp time.Time
}

// LRUCache implementa una cache LRU O(1) thread-safe con TTL. El tablero la
// usa para no golpear el warehouse en cada tick: la vista de tiempo real
// tolera la ventana de 30s de datos en caché.
type LRUCache struct {
	maxEntries int
	ttl        time.Duration
	entries    map[string]*list.Element
	lruList    *list.List
	mu         sync.RWMutex
}

// entry es un elemento interno de la cache
type entry struct {
	key   string
	value *CachedValue
}

// NewLRUCache crea una nueva cache LRU
func NewLRUCache(maxEntries int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*list.Element),
		lruList:    list.New(),
	}
}

// Get obtiene un valor de la cache
// Retorna (valor, encontrado)
func (c *LRUCache) Get(key string) (*CachedValue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*entry)

	// Verificar TTL
	if time.Since(entry.value.Timestamp) > c.ttl {
		// Expirado - eliminar
		c.removeElement(elem)
		return nil, false
	}

	// Mover al frente (más recientemente usado)
	c.lruList.MoveToFront(elem)
	return entry.value, true
}

// Set almacena un valor en la cache
func (c *LRUCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Si ya existe, actualizar y mover al frente
	if elem, ok := c.entries[key]; ok {
		c.lruList.MoveToFront(elem)
		entry := elem.Value.(*entry)
		entry.value = &CachedValue{
			Value:     value,
			Timestamp: time.Now(),
		}
		return
	}

	// Insertar nuevo
	elem := c.lruList.PushFront(&entry{
		key: key,
		value: &CachedValue{
			Value:     value,
			Timestamp: time.Now(),
		},
	})
	c.entries[key] = elem

	// Evictar el menos usado si se superó la capacidad
	if c.maxEntries > 0 && c.lruList.Len() > c.maxEntries {
		c.removeOldest()
	}
}

func (c *LRUCache) removeOldest() {
	elem := c.lruList.Back()
	if elem != nil {
		c.removeElement(elem)
	}
}

func (c *LRUCache) removeElement(elem *list.Element) {
	c.lruList.Remove(elem)
	entry := elem.Value.(*entry)
	delete(c.entries, entry.key)
}

// Len retorna la cantidad de entradas vigentes
func (c *LRUCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lruList.Len()
}

// FuenteConCache envuelve al Manager con la caché temporizada. Expone las
// mismas lecturas tipadas; los errores nunca se cachean.
type FuenteConCache struct {
	mgr   *Manager
	cache *LRUCache
}

// NewFuenteConCache crea la fuente de datos con caché para el tablero
func NewFuenteConCache(mgr *Manager, ttl time.Duration) *FuenteConCache {
	return &FuenteConCache{
		mgr:   mgr,
		cache: NewLRUCache(64, ttl),
	}
}

// RegistrosEmbuticion delega en el Manager con caché por filtro.
func (f *FuenteConCache) RegistrosEmbuticion(ctx context.Context, filtro models.Filtro) ([]models.RegistroProduccion, error) {
	key := "registros|" + filtro.Clave()
	if cached, ok := f.cache.Get(key); ok {
		return cached.Value.([]models.RegistroProduccion), nil
	}

	registros, err := f.mgr.RegistrosEmbuticion(ctx, filtro)
	if err != nil {
		return nil, err
	}
	f.cache.Set(key, registros)
	return registros, nil
}

// LineasOrden delega en el Manager con caché por producto/orden/filtro.
func (f *FuenteConCache) LineasOrden(ctx context.Context, codigo, odp string, filtro models.Filtro) ([]models.LineaOrden, error) {
	key := fmt.Sprintf("lineas|%s|%s|%s", codigo, odp, filtro.Clave())
	if cached, ok := f.cache.Get(key); ok {
		return cached.Value.([]models.LineaOrden), nil
	}

	lineas, err := f.mgr.LineasOrden(ctx, codigo, odp, filtro)
	if err != nil {
		return nil, err
	}
	f.cache.Set(key, lineas)
	return lineas, nil
}

// OrdenesDelProducto delega en el Manager con caché por producto/filtro.
func (f *FuenteConCache) OrdenesDelProducto(ctx context.Context, codigo string, filtro models.Filtro) ([]models.OrdenProducto, error) {
	key := fmt.Sprintf("ordenes|%s|%s", codigo, filtro.Clave())
	if cached, ok := f.cache.Get(key); ok {
		return cached.Value.([]models.OrdenProducto), nil
	}

	ordenes, err := f.mgr.OrdenesDelProducto(ctx, codigo, filtro)
	if err != nil {
		return nil, err
	}
	f.cache.Set(key, ordenes)
	return ordenes, nil
}
